package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

const auditColumns = `ticket_id, from_status, to_status, transition_time, performed_by, reason,
	successful, error_message`

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, audit *domain.TicketStateTransitionAudit) error {
	query := `
	INSERT INTO ticket_transition_audit (` + auditColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		audit.TicketID, audit.FromStatus, audit.ToStatus, audit.TransitionTime, audit.PerformedBy,
		audit.Reason, audit.Successful, audit.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit for ticket %s: %w", audit.TicketID, err)
	}

	return nil
}

func (r *AuditRepository) ListByTicket(ctx context.Context, ticketID domain.TicketID) ([]domain.TicketStateTransitionAudit, error) {
	query := `
	SELECT ` + auditColumns + `
	FROM ticket_transition_audit
	WHERE ticket_id = $1
	ORDER BY transition_time, id
	`

	return r.list(ctx, query, ticketID)
}

// ListByTimeRange is half-open: from inclusive, to exclusive.
func (r *AuditRepository) ListByTimeRange(ctx context.Context, from, to time.Time) ([]domain.TicketStateTransitionAudit, error) {
	query := `
	SELECT ` + auditColumns + `
	FROM ticket_transition_audit
	WHERE transition_time >= $1 AND transition_time < $2
	ORDER BY transition_time, id
	`

	return r.list(ctx, query, from, to)
}

func (r *AuditRepository) ListFailed(ctx context.Context) ([]domain.TicketStateTransitionAudit, error) {
	query := `
	SELECT ` + auditColumns + `
	FROM ticket_transition_audit
	WHERE NOT successful
	ORDER BY transition_time, id
	`

	return r.list(ctx, query)
}

func (r *AuditRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketStateTransitionAudit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var audits []domain.TicketStateTransitionAudit
	for rows.Next() {
		var a domain.TicketStateTransitionAudit

		err := rows.Scan(
			&a.TicketID,
			&a.FromStatus,
			&a.ToStatus,
			&a.TransitionTime,
			&a.PerformedBy,
			&a.Reason,
			&a.Successful,
			&a.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		audits = append(audits, a)
	}

	return audits, rows.Err()
}
