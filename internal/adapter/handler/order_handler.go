package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
)

type finalizeRequest struct {
	PerformedBy string `json:"performed_by" validate:"required"`
	Reason      string `json:"reason"`
}

type cancelRequest struct {
	PerformedBy   string `json:"performed_by" validate:"required"`
	PaymentFailed bool   `json:"payment_failed"`
}

type OrderHandler struct {
	svc      *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(svc *services.OrderService, validate *validator.Validate, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, validate: validate, logger: logger}
}

func (h *OrderHandler) Register(router *mux.Router) {
	router.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id}/process", h.ProcessOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}/payment", h.ConfirmPayment).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}/sell", h.MarkAsSold).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}/complimentary", h.MarkAsComplimentary).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}/cancel", h.CancelOrder).Methods(http.MethodPost)
	router.HandleFunc("/customers/{id}/orders", h.ListCustomerOrders).Methods(http.MethodGet)
	router.HandleFunc("/tickets/{id}/audit", h.TicketAudit).Methods(http.MethodGet)
	router.HandleFunc("/audit/failed", h.FailedTransitions).Methods(http.MethodGet)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateOrderRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrder(*order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := domain.ParseOrderID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	order, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	resp := orderDetailsResponse{orderResponse: toOrder(*order)}

	res, err := h.svc.GetReservation(r.Context(), orderID)
	switch {
	case err == nil:
		resp.Reservation = &reservationResponse{
			ID:         string(res.ID),
			TicketType: res.TicketType,
			Quantity:   res.Quantity,
			Status:     string(res.Status),
			ExpiresAt:  res.ExpiresAt,
		}
	case !errors.Is(err, domain.ErrNotFound):
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ProcessOrder runs the asynchronous processing step inline. It is the manual
// path when no broker is configured.
func (h *OrderHandler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := domain.ParseOrderID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	order, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	event := ports.OrderEvent{
		OrderID:    order.ID,
		EventID:    order.EventID,
		CustomerID: order.CustomerID,
		Quantity:   order.TicketCount(),
		Timestamp:  order.CreatedAt,
	}
	if len(order.Tickets) > 0 {
		event.TicketType = order.Tickets[0].TicketType
	}

	if err := h.svc.ProcessOrderEvent(r.Context(), event); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	h.respondWithOrder(w, r, orderID)
}

func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := domain.ParseOrderID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	var req services.PaymentRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	info, err := h.svc.ConfirmPayment(r.Context(), orderID, req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, customerInfoResponse{
		OrderID:       string(info.OrderID),
		CustomerID:    string(info.CustomerID),
		Name:          info.Name,
		Email:         info.Email,
		PaymentMethod: info.PaymentMethod,
	})
}

func (h *OrderHandler) MarkAsSold(w http.ResponseWriter, r *http.Request) {
	orderID, req, ok := h.finalizeInput(w, r)
	if !ok {
		return
	}

	order, err := h.svc.MarkAsSold(r.Context(), orderID, req.PerformedBy)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrder(*order))
}

func (h *OrderHandler) MarkAsComplimentary(w http.ResponseWriter, r *http.Request) {
	orderID, req, ok := h.finalizeInput(w, r)
	if !ok {
		return
	}

	order, err := h.svc.MarkAsComplimentary(r.Context(), orderID, req.PerformedBy, req.Reason)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrder(*order))
}

func (h *OrderHandler) finalizeInput(w http.ResponseWriter, r *http.Request) (domain.OrderID, finalizeRequest, bool) {
	var req finalizeRequest

	orderID, err := domain.ParseOrderID(mux.Vars(r)["id"])
	if err == nil {
		err = decode(r, h.validate, &req)
	}

	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return "", req, false
	}

	return orderID, req, true
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := domain.ParseOrderID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	var req cancelRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	order, err := h.svc.CancelOrder(r.Context(), orderID, req.PerformedBy, req.PaymentFailed)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrder(*order))
}

func (h *OrderHandler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := domain.ParseCustomerID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	orders, err := h.svc.ListCustomerOrders(r.Context(), customerID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrder(o)
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) TicketAudit(w http.ResponseWriter, r *http.Request) {
	ticketID, err := domain.ParseTicketID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	audits, err := h.svc.TicketAudit(r.Context(), ticketID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toAudits(audits))
}

func (h *OrderHandler) FailedTransitions(w http.ResponseWriter, r *http.Request) {
	audits, err := h.svc.FailedTransitions(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toAudits(audits))
}

func (h *OrderHandler) respondWithOrder(w http.ResponseWriter, r *http.Request, orderID domain.OrderID) {
	order, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrder(*order))
}
