package domain

import (
	"fmt"
	"strings"
	"time"
)

// SeatPool is the label space of one (event, ticket type) pair. Labels are
// opaque: "<TYPE>-<n>" with n zero-padded to the width of the capacity.
type SeatPool struct {
	TicketType string
	Capacity   int
}

func (p SeatPool) Label(n int) string {
	width := len(fmt.Sprint(p.Capacity))
	if width < 3 {
		width = 3
	}

	return fmt.Sprintf("%s-%0*d", strings.ToUpper(p.TicketType), width, n)
}

// Allocate returns the n lowest labels that are not in occupied.
func (p SeatPool) Allocate(occupied map[string]struct{}, n int) ([]string, error) {
	if n <= 0 {
		return nil, invalidArgument("seat count must be positive, got %d", n)
	}

	labels := make([]string, 0, n)
	for i := 1; i <= p.Capacity && len(labels) < n; i++ {
		label := p.Label(i)
		if _, taken := occupied[label]; taken {
			continue
		}

		labels = append(labels, label)
	}

	if len(labels) < n {
		return nil, &InsufficientInventoryError{TicketType: p.TicketType, Requested: n, Available: len(labels)}
	}

	return labels, nil
}

// SeatAssignment is one all-or-nothing request: Tickets[i] receives
// Labels[i] and moves to Target, provided every ticket is currently in one of
// AllowedFrom and no label is already taken in (EventID, TicketType).
type SeatAssignment struct {
	EventID     EventID
	TicketType  string
	Tickets     []TicketItem
	Labels      []string
	Target      TicketStatus
	AllowedFrom []TicketStatus
	PerformedBy string
	At          time.Time
}

func (a SeatAssignment) Validate() error {
	if a.EventID == "" || strings.TrimSpace(a.TicketType) == "" {
		return invalidArgument("seat assignment requires event and ticket type")
	}

	if !a.Target.IsFinal() {
		return invalidArgument("seat assignment target must be SOLD or COMPLIMENTARY, got %s", a.Target)
	}

	if len(a.Tickets) == 0 {
		return invalidArgument("seat assignment requires at least one ticket")
	}

	if len(a.Tickets) != len(a.Labels) {
		return invalidArgument("got %d tickets and %d seat labels", len(a.Tickets), len(a.Labels))
	}

	if len(a.AllowedFrom) == 0 {
		return invalidArgument("seat assignment requires allowed source statuses")
	}

	seen := make(map[string]struct{}, len(a.Labels))
	for i, label := range a.Labels {
		if strings.TrimSpace(label) == "" {
			return invalidArgument("ticket %s: seat number is required", a.Tickets[i].ID)
		}

		if _, dup := seen[label]; dup {
			return fmt.Errorf("%w: label %s appears twice in one assignment", ErrSeatTaken, label)
		}
		seen[label] = struct{}{}

		if a.Tickets[i].EventID != a.EventID || a.Tickets[i].TicketType != a.TicketType {
			return invalidArgument("ticket %s is outside %s/%s", a.Tickets[i].ID, a.EventID, a.TicketType)
		}
	}

	return nil
}

func (a SeatAssignment) Allows(status TicketStatus) bool {
	for _, s := range a.AllowedFrom {
		if s == status {
			return true
		}
	}

	return false
}

// Apply computes the post-assignment tickets from their current stored
// values. It does not check label uniqueness; that is the store's job.
func (a SeatAssignment) Apply(current []TicketItem) ([]TicketItem, error) {
	if len(current) != len(a.Labels) {
		return nil, invalidArgument("got %d current tickets for %d labels", len(current), len(a.Labels))
	}

	out := make([]TicketItem, len(current))
	for i, t := range current {
		if !a.Allows(t.Status) {
			return nil, newTransitionError("ticket", string(t.ID), string(t.Status), string(a.Target))
		}

		next, err := t.TransitionTo(a.Target, a.Labels[i], a.PerformedBy, a.At)
		if err != nil {
			return nil, err
		}

		out[i] = next
	}

	return out, nil
}
