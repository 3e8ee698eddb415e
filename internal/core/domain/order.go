package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderAvailable           OrderStatus = "AVAILABLE"
	OrderReserved            OrderStatus = "RESERVED"
	OrderPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderSold                OrderStatus = "SOLD"
	OrderExpired             OrderStatus = "EXPIRED"
	OrderComplimentary       OrderStatus = "COMPLIMENTARY"
	OrderCancelled           OrderStatus = "CANCELLED"
	OrderFailed              OrderStatus = "FAILED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderAvailable:           {OrderReserved, OrderComplimentary, OrderCancelled},
	OrderReserved:            {OrderPendingConfirmation, OrderExpired, OrderComplimentary, OrderCancelled},
	OrderPendingConfirmation: {OrderSold, OrderComplimentary, OrderCancelled, OrderFailed},
	OrderSold:                nil,
	OrderExpired:             nil,
	OrderComplimentary:       nil,
	OrderCancelled:           nil,
	OrderFailed:              nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

// Order groups the tickets of one customer purchase for one event. It is a
// copy-on-write aggregate: every mutator returns a new Order with Version
// incremented and the receiver left untouched.
type Order struct {
	ID          OrderID
	CustomerID  CustomerID
	OrderNumber string
	EventID     EventID
	EventName   string
	Status      OrderStatus
	Tickets     []TicketItem
	TotalAmount Money
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

func NewOrder(customerID CustomerID, eventID EventID, eventName string, tickets []TicketItem, now time.Time) (Order, error) {
	if customerID == "" {
		return Order{}, invalidArgument("customer id must not be blank")
	}

	if eventID == "" {
		return Order{}, invalidArgument("event id must not be blank")
	}

	if len(tickets) == 0 {
		return Order{}, invalidArgument("order requires at least one ticket")
	}

	id := NewOrderID()
	order := Order{
		ID:          id,
		CustomerID:  customerID,
		OrderNumber: orderNumber(id, now),
		EventID:     eventID,
		EventName:   eventName,
		Status:      OrderAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	total, err := sumPrices(tickets)
	if err != nil {
		return Order{}, err
	}

	order.Tickets = copyTickets(tickets)
	order.TotalAmount = total
	return order, nil
}

func orderNumber(id OrderID, now time.Time) string {
	suffix := strings.ReplaceAll(string(id), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}

	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(suffix))
}

func (o Order) TicketCount() int {
	return len(o.Tickets)
}

// CheckTransition reports whether the order may move to status, without
// building the new value.
func (o Order) CheckTransition(to OrderStatus) error {
	if !o.Status.CanTransitionTo(to) {
		return o.transitionError(to)
	}

	return nil
}

func (o Order) Reserve(now time.Time) (Order, error) {
	return o.simple(OrderReserved, now)
}

func (o Order) Confirm(now time.Time) (Order, error) {
	return o.simple(OrderPendingConfirmation, now)
}

func (o Order) MarkAsSold(updated []TicketItem, now time.Time) (Order, error) {
	if err := o.CheckTransition(OrderSold); err != nil {
		return Order{}, err
	}

	if err := o.checkFinalTickets(updated, TicketSold); err != nil {
		return Order{}, err
	}

	total, err := sumPrices(updated)
	if err != nil {
		return Order{}, err
	}

	sold := o.next(OrderSold, now)
	sold.Tickets = copyTickets(updated)
	sold.TotalAmount = total
	return sold, nil
}

func (o Order) MarkAsComplimentary(updated []TicketItem, now time.Time) (Order, error) {
	if err := o.CheckTransition(OrderComplimentary); err != nil {
		return Order{}, err
	}

	if err := o.checkFinalTickets(updated, TicketComplimentary); err != nil {
		return Order{}, err
	}

	comp := o.next(OrderComplimentary, now)
	comp.Tickets = copyTickets(updated)
	comp.TotalAmount = o.TotalAmount.zeroed()
	return comp, nil
}

func (o Order) MarkAsExpired(now time.Time) (Order, error) {
	return o.simple(OrderExpired, now)
}

// Cancel abandons an order that has not reached a terminal state.
func (o Order) Cancel(now time.Time) (Order, error) {
	return o.simple(OrderCancelled, now)
}

// Fail records a failed payment for an order awaiting confirmation.
func (o Order) Fail(now time.Time) (Order, error) {
	return o.simple(OrderFailed, now)
}

// WithTickets replaces the embedded ticket list without changing status or
// version. Used when tickets are loaded from their own store.
func (o Order) WithTickets(tickets []TicketItem) Order {
	o.Tickets = copyTickets(tickets)
	return o
}

func (o Order) checkFinalTickets(updated []TicketItem, want TicketStatus) error {
	if len(updated) == 0 {
		return invalidArgument("order %s: updated ticket list must not be empty", o.ID)
	}

	if len(o.Tickets) > 0 && len(updated) != len(o.Tickets) {
		return invalidArgument("order %s: expected %d tickets, got %d", o.ID, len(o.Tickets), len(updated))
	}

	for _, t := range updated {
		if t.Status != want {
			return invalidArgument("order %s: ticket %s is %s, expected %s", o.ID, t.ID, t.Status, want)
		}
	}

	return nil
}

func (o Order) simple(to OrderStatus, now time.Time) (Order, error) {
	if err := o.CheckTransition(to); err != nil {
		return Order{}, err
	}

	return o.next(to, now), nil
}

func (o Order) next(status OrderStatus, now time.Time) Order {
	o.Tickets = copyTickets(o.Tickets)
	o.Status = status
	o.UpdatedAt = now
	o.Version++
	return o
}

func (o Order) transitionError(to OrderStatus) error {
	return newTransitionError("order", string(o.ID), string(o.Status), string(to))
}

func sumPrices(tickets []TicketItem) (Money, error) {
	if len(tickets) == 0 {
		return Money{}, invalidArgument("cannot total an empty ticket list")
	}

	total := tickets[0].Price.zeroed()
	for _, t := range tickets {
		if t.Price.Currency() != total.Currency() {
			return Money{}, invalidArgument("ticket %s is priced in %s, order is in %s", t.ID, t.Price.Currency(), total.Currency())
		}

		total = total.Add(t.Price)
	}

	return total, nil
}

func copyTickets(tickets []TicketItem) []TicketItem {
	if tickets == nil {
		return nil
	}

	out := make([]TicketItem, len(tickets))
	copy(out, tickets)
	return out
}
