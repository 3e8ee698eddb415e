package services

import (
	"context"
	"fmt"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
	"go.uber.org/zap"
)

// ticketLifecycle applies non-final transitions to groups of tickets and
// writes one audit record per attempt.
type ticketLifecycle struct {
	tickets ports.TicketRepository
	audit   ports.AuditRepository
	clock   ports.Clock
	retry   RetryPolicy
	logger  *zap.Logger
}

type ticketLoader func(ctx context.Context) ([]domain.TicketItem, error)

// advance loads the tickets, moves every one for which eligible returns true
// to status to, and writes the batch conditioned on each ticket's observed
// status. When another writer got there first the tickets are reloaded and
// the step is recomputed. On the first illegal transition nothing is
// persisted.
func (l *ticketLifecycle) advance(
	ctx context.Context,
	load ticketLoader,
	to domain.TicketStatus,
	by, reason string,
	eligible func(domain.TicketItem) bool,
) ([]domain.TicketItem, error) {
	var (
		out    []domain.TicketItem
		audits []domain.TicketStateTransitionAudit
	)

	err := retryOnConflict(ctx, l.retry, "ticket", func() error {
		tickets, err := load(ctx)
		if err != nil {
			return err
		}

		now := l.clock.Now()
		out = make([]domain.TicketItem, len(tickets))
		audits = make([]domain.TicketStateTransitionAudit, 0, len(tickets))
		changes := make([]domain.TicketChange, 0, len(tickets))

		for i, t := range tickets {
			if eligible != nil && !eligible(t) {
				out[i] = t
				continue
			}

			next, err := t.TransitionTo(to, "", by, now)
			audits = append(audits, domain.NewTransitionAudit(t, to, by, reason, now, err))
			if err != nil {
				l.record(ctx, failedOnly(audits))
				audits = nil
				return err
			}

			out[i] = next
			changes = append(changes, domain.TicketChange{Next: next, From: t.Status})
		}

		if len(changes) == 0 {
			return nil
		}

		if err := l.tickets.TransitionBatch(ctx, changes); err != nil {
			return fmt.Errorf("save tickets: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	l.record(ctx, audits)
	return out, nil
}

// record appends audits. The audit trail never blocks a state change, so
// failures are only logged.
func (l *ticketLifecycle) record(ctx context.Context, audits []domain.TicketStateTransitionAudit) {
	for i := range audits {
		if err := l.audit.Append(ctx, &audits[i]); err != nil {
			logger.Error(ctx, l.logger, "failed to append transition audit",
				zap.String("ticket_id", string(audits[i].TicketID)),
				zap.String("to", string(audits[i].ToStatus)),
				zap.Error(err),
			)
		}
	}
}

func failedOnly(audits []domain.TicketStateTransitionAudit) []domain.TicketStateTransitionAudit {
	var out []domain.TicketStateTransitionAudit
	for _, a := range audits {
		if !a.Successful {
			out = append(out, a)
		}
	}

	return out
}

func hasStatus(statuses ...domain.TicketStatus) func(domain.TicketItem) bool {
	return func(t domain.TicketItem) bool {
		for _, s := range statuses {
			if t.Status == s {
				return true
			}
		}

		return false
	}
}
