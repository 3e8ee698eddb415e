package handler

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
)

type EventHandler struct {
	svc      *services.EventService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewEventHandler(svc *services.EventService, validate *validator.Validate, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, validate: validate, logger: logger}
}

func (h *EventHandler) Register(router *mux.Router) {
	router.HandleFunc("/events", h.CreateEvent).Methods(http.MethodPost)
	router.HandleFunc("/events", h.ListEvents).Methods(http.MethodGet)
	router.HandleFunc("/events/{id}", h.GetEvent).Methods(http.MethodGet)
	router.HandleFunc("/events/{id}/cancel", h.CancelEvent).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}/inventory", h.ListInventory).Methods(http.MethodGet)
	router.HandleFunc("/events/{id}/inventory/{type}", h.GetAvailability).Methods(http.MethodGet)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req services.CreateEventRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	details, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventDetails(*details))
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	status := domain.EventStatus(strings.ToUpper(r.URL.Query().Get("status")))

	events, err := h.svc.ListEvents(r.Context(), status)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEvent(e)
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := domain.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	details, err := h.svc.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventDetails(*details))
}

func (h *EventHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := domain.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	event, err := h.svc.CancelEvent(r.Context(), eventID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvent(*event))
}

func (h *EventHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	eventID, err := domain.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	inventory, err := h.svc.ListInventory(r.Context(), eventID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toInventories(inventory))
}

func (h *EventHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	eventID, err := domain.ParseEventID(vars["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	inv, err := h.svc.Availability(r.Context(), eventID, vars["type"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toInventory(*inv))
}
