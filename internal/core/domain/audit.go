package domain

import "time"

// TicketStateTransitionAudit is an append-only record of one transition
// attempt, successful or not.
type TicketStateTransitionAudit struct {
	TicketID       TicketID
	FromStatus     TicketStatus
	ToStatus       TicketStatus
	TransitionTime time.Time
	PerformedBy    string
	Reason         string
	Successful     bool
	ErrorMessage   string
}

func NewTransitionAudit(ticket TicketItem, to TicketStatus, by, reason string, at time.Time, err error) TicketStateTransitionAudit {
	audit := TicketStateTransitionAudit{
		TicketID:       ticket.ID,
		FromStatus:     ticket.Status,
		ToStatus:       to,
		TransitionTime: at,
		PerformedBy:    by,
		Reason:         reason,
		Successful:     err == nil,
	}

	if err != nil {
		audit.ErrorMessage = err.Error()
	}

	return audit
}
