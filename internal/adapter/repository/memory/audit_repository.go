package memory

import (
	"context"
	"sync"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type AuditRepository struct {
	mu      sync.RWMutex
	records []domain.TicketStateTransitionAudit
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(ctx context.Context, audit *domain.TicketStateTransitionAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, *audit)
	return nil
}

func (r *AuditRepository) ListByTicket(ctx context.Context, ticketID domain.TicketID) ([]domain.TicketStateTransitionAudit, error) {
	return r.filter(func(a domain.TicketStateTransitionAudit) bool { return a.TicketID == ticketID }), nil
}

// ListByTimeRange is inclusive of from and exclusive of to.
func (r *AuditRepository) ListByTimeRange(ctx context.Context, from, to time.Time) ([]domain.TicketStateTransitionAudit, error) {
	return r.filter(func(a domain.TicketStateTransitionAudit) bool {
		return !a.TransitionTime.Before(from) && a.TransitionTime.Before(to)
	}), nil
}

func (r *AuditRepository) ListFailed(ctx context.Context) ([]domain.TicketStateTransitionAudit, error) {
	return r.filter(func(a domain.TicketStateTransitionAudit) bool { return !a.Successful }), nil
}

func (r *AuditRepository) filter(keep func(domain.TicketStateTransitionAudit) bool) []domain.TicketStateTransitionAudit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.TicketStateTransitionAudit
	for _, a := range r.records {
		if keep(a) {
			out = append(out, a)
		}
	}

	return out
}
