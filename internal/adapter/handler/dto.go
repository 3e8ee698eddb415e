package handler

import (
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
)

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoney(m domain.Money) moneyResponse {
	return moneyResponse{Amount: m.Amount().StringFixed(2), Currency: m.Currency()}
}

type eventResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description,omitempty"`
	Venue            string              `json:"venue"`
	EventDate        time.Time           `json:"event_date"`
	TotalCapacity    int                 `json:"total_capacity"`
	AvailableTickets int                 `json:"available_tickets"`
	ReservedTickets  int                 `json:"reserved_tickets"`
	SoldTickets      int                 `json:"sold_tickets"`
	Status           string              `json:"status"`
	Inventory        []inventoryResponse `json:"inventory,omitempty"`
}

func toEvent(e domain.Event) eventResponse {
	return eventResponse{
		ID:               string(e.ID),
		Name:             e.Name,
		Description:      e.Description,
		Venue:            e.Venue,
		EventDate:        e.EventDate,
		TotalCapacity:    e.TotalCapacity,
		AvailableTickets: e.AvailableTickets,
		ReservedTickets:  e.ReservedTickets,
		SoldTickets:      e.SoldTickets,
		Status:           string(e.Status),
	}
}

func toEventDetails(d services.EventDetails) eventResponse {
	resp := toEvent(d.Event)
	resp.Inventory = toInventories(d.Inventory)
	return resp
}

type inventoryResponse struct {
	EventID    string        `json:"event_id"`
	TicketType string        `json:"ticket_type"`
	Total      int           `json:"total"`
	Available  int           `json:"available"`
	Reserved   int           `json:"reserved"`
	Sold       int           `json:"sold"`
	Price      moneyResponse `json:"price"`
}

func toInventory(inv domain.TicketInventory) inventoryResponse {
	return inventoryResponse{
		EventID:    string(inv.EventID),
		TicketType: inv.TicketType,
		Total:      inv.Total,
		Available:  inv.Available,
		Reserved:   inv.Reserved,
		Sold:       inv.Sold,
		Price:      toMoney(inv.Price),
	}
}

func toInventories(invs []domain.TicketInventory) []inventoryResponse {
	out := make([]inventoryResponse, len(invs))
	for i, inv := range invs {
		out[i] = toInventory(inv)
	}
	return out
}

type ticketResponse struct {
	ID         string        `json:"id"`
	TicketType string        `json:"ticket_type"`
	SeatNumber string        `json:"seat_number,omitempty"`
	Price      moneyResponse `json:"price"`
	Status     string        `json:"status"`
}

type orderResponse struct {
	ID          string           `json:"id"`
	OrderNumber string           `json:"order_number"`
	CustomerID  string           `json:"customer_id"`
	EventID     string           `json:"event_id"`
	EventName   string           `json:"event_name"`
	Status      string           `json:"status"`
	TotalAmount moneyResponse    `json:"total_amount"`
	Tickets     []ticketResponse `json:"tickets,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toOrder(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:          string(o.ID),
		OrderNumber: o.OrderNumber,
		CustomerID:  string(o.CustomerID),
		EventID:     string(o.EventID),
		EventName:   o.EventName,
		Status:      string(o.Status),
		TotalAmount: toMoney(o.TotalAmount),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	for _, t := range o.Tickets {
		resp.Tickets = append(resp.Tickets, ticketResponse{
			ID:         string(t.ID),
			TicketType: t.TicketType,
			SeatNumber: t.Seat(),
			Price:      toMoney(t.Price),
			Status:     string(t.Status),
		})
	}

	return resp
}

type reservationResponse struct {
	ID         string    `json:"id"`
	TicketType string    `json:"ticket_type"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type orderDetailsResponse struct {
	orderResponse
	Reservation *reservationResponse `json:"reservation,omitempty"`
}

type auditResponse struct {
	TicketID       string    `json:"ticket_id"`
	FromStatus     string    `json:"from_status"`
	ToStatus       string    `json:"to_status"`
	TransitionTime time.Time `json:"transition_time"`
	PerformedBy    string    `json:"performed_by"`
	Reason         string    `json:"reason,omitempty"`
	Successful     bool      `json:"successful"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

func toAudits(audits []domain.TicketStateTransitionAudit) []auditResponse {
	out := make([]auditResponse, len(audits))
	for i, a := range audits {
		out[i] = auditResponse{
			TicketID:       string(a.TicketID),
			FromStatus:     string(a.FromStatus),
			ToStatus:       string(a.ToStatus),
			TransitionTime: a.TransitionTime,
			PerformedBy:    a.PerformedBy,
			Reason:         a.Reason,
			Successful:     a.Successful,
			ErrorMessage:   a.ErrorMessage,
		}
	}
	return out
}

type customerInfoResponse struct {
	OrderID       string `json:"order_id"`
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PaymentMethod string `json:"payment_method"`
}
