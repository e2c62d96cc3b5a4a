package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// NotificationFilter narrows the notification log.
type NotificationFilter struct {
	Role       *domain.StaffRole
	TicketID   string
	Suppressed *bool
	Limit      int
	Offset     int
}

// NotificationRepository is the append-only notification log.
type NotificationRepository interface {
	Append(ctx context.Context, record *domain.NotificationRecord) error
	List(ctx context.Context, filter NotificationFilter) ([]domain.NotificationRecord, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the postgres log.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Append(ctx context.Context, record *domain.NotificationRecord) error {
	const query = `
        INSERT INTO notifications (id, target_role, message, ticket_id, deep_link, recipients, suppressed, dispatched_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	recipients, err := json.Marshal(nonNil(record.Recipients))
	if err != nil {
		return fmt.Errorf("encode recipients: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		record.ID,
		record.TargetRole,
		record.Message,
		record.TicketID,
		record.DeepLink,
		recipients,
		record.Suppressed,
		record.DispatchedAt,
	)
	return err
}

func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter) ([]domain.NotificationRecord, error) {
	query := `
        SELECT id, target_role, message, ticket_id, deep_link, recipients, suppressed, dispatched_at
        FROM notifications`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("target_role=$%d", len(args)))
	}
	if filter.TicketID != "" {
		args = append(args, filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if filter.Suppressed != nil {
		args = append(args, *filter.Suppressed)
		clauses = append(clauses, fmt.Sprintf("suppressed=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY dispatched_at DESC, id DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.NotificationRecord{}
	for rows.Next() {
		var (
			record     domain.NotificationRecord
			recipients []byte
		)
		if err := rows.Scan(
			&record.ID,
			&record.TargetRole,
			&record.Message,
			&record.TicketID,
			&record.DeepLink,
			&recipients,
			&record.Suppressed,
			&record.DispatchedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(recipients, &record.Recipients); err != nil {
			return nil, fmt.Errorf("decode recipients: %w", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
