package domain

import (
	"strings"

	"github.com/google/uuid"
)

type (
	EventID       string
	OrderID       string
	CustomerID    string
	TicketID      string
	ReservationID string
)

func NewEventID() EventID             { return EventID(uuid.NewString()) }
func NewOrderID() OrderID             { return OrderID(uuid.NewString()) }
func NewCustomerID() CustomerID       { return CustomerID(uuid.NewString()) }
func NewTicketID() TicketID           { return TicketID(uuid.NewString()) }
func NewReservationID() ReservationID { return ReservationID(uuid.NewString()) }

func ParseEventID(s string) (EventID, error) {
	v, err := parseID("event id", s)
	return EventID(v), err
}

func ParseOrderID(s string) (OrderID, error) {
	v, err := parseID("order id", s)
	return OrderID(v), err
}

func ParseCustomerID(s string) (CustomerID, error) {
	v, err := parseID("customer id", s)
	return CustomerID(v), err
}

func ParseTicketID(s string) (TicketID, error) {
	v, err := parseID("ticket id", s)
	return TicketID(v), err
}

func ParseReservationID(s string) (ReservationID, error) {
	v, err := parseID("reservation id", s)
	return ReservationID(v), err
}

func parseID(kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalidArgument("%s must not be blank", kind)
	}

	return s, nil
}

func (id EventID) String() string       { return string(id) }
func (id OrderID) String() string       { return string(id) }
func (id CustomerID) String() string    { return string(id) }
func (id TicketID) String() string      { return string(id) }
func (id ReservationID) String() string { return string(id) }
