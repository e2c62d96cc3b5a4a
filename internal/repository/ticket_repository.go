package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// TicketSort names a sortable ticket column.
type TicketSort string

const (
	SortByCreatedAt TicketSort = "created_at"
	SortByID        TicketSort = "id"
	SortByPriority  TicketSort = "priority"
	SortByStatus    TicketSort = "status"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Statuses  []domain.TicketStatus
	Search    string
	SortBy    TicketSort
	Ascending bool
}

// TicketRepository encapsulates ticket persistence. Each ticket is stored as
// one record, history included, so every mutation is a single write.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByIDPrefix(ctx context.Context, prefix string) (int, error)
}

const uniqueViolation = "23505"

const ticketColumns = `id, line, machine, symptom, symptom_category, description, applicant,
               status, priority, history, before_photos, after_photos, completion_report,
               additional_info, created_at, updated_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

type ticketJSON struct {
	history, before, after, completion, additional []byte
}

func encodeTicket(ticket *domain.Ticket) (ticketJSON, error) {
	var (
		out ticketJSON
		err error
	)
	if out.history, err = json.Marshal(ticket.History); err != nil {
		return out, fmt.Errorf("encode history: %w", err)
	}
	if out.before, err = json.Marshal(nonNil(ticket.BeforePhotos)); err != nil {
		return out, fmt.Errorf("encode before photos: %w", err)
	}
	if out.after, err = json.Marshal(nonNil(ticket.AfterPhotos)); err != nil {
		return out, fmt.Errorf("encode after photos: %w", err)
	}
	if ticket.CompletionReport != nil {
		if out.completion, err = json.Marshal(ticket.CompletionReport); err != nil {
			return out, fmt.Errorf("encode completion report: %w", err)
		}
	}
	if ticket.AdditionalInfo != nil {
		if out.additional, err = json.Marshal(ticket.AdditionalInfo); err != nil {
			return out, fmt.Errorf("encode additional info: %w", err)
		}
	}
	return out, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (` + ticketColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	enc, err := encodeTicket(ticket)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Line,
		ticket.Machine,
		ticket.Symptom,
		ticket.SymptomCategory,
		ticket.Description,
		ticket.Applicant,
		ticket.Status,
		ticket.Priority,
		enc.history,
		enc.before,
		enc.after,
		enc.completion,
		enc.additional,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.ID})
	}
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, priority=$2, history=$3, after_photos=$4,
            completion_report=$5, additional_info=$6, updated_at=$7
        WHERE id=$8`
	enc, err := encodeTicket(ticket)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.Priority,
		enc.history,
		enc.after,
		enc.completion,
		enc.additional,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return ticket, err
}

func (r *ticketRepository) CountByIDPrefix(ctx context.Context, prefix string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE id LIKE $1`, prefix+"%").Scan(&count)
	return count, err
}

var sortExpressions = map[TicketSort]string{
	SortByCreatedAt: "created_at",
	SortByID:        "id",
	SortByStatus:    "CASE status WHEN 'OPEN' THEN 0 WHEN 'IN_PROGRESS' THEN 1 ELSE 2 END",
	SortByPriority:  "CASE priority WHEN 'HIGH' THEN 0 WHEN 'LOW' THEN 2 ELSE 1 END",
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(id) LIKE %s OR LOWER(machine) LIKE %s OR LOWER(symptom) LIKE %s OR LOWER(applicant) LIKE %s)",
			p, p, p, p))
	}

	order, ok := sortExpressions[filter.SortBy]
	if !ok {
		order = sortExpressions[SortByCreatedAt]
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s %s, id %s`,
		ticketColumns, strings.Join(clauses, " AND "), order, direction, direction)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		enc    ticketJSON
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Line,
		&ticket.Machine,
		&ticket.Symptom,
		&ticket.SymptomCategory,
		&ticket.Description,
		&ticket.Applicant,
		&ticket.Status,
		&ticket.Priority,
		&enc.history,
		&enc.before,
		&enc.after,
		&enc.completion,
		&enc.additional,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(enc.history, &ticket.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if err := json.Unmarshal(enc.before, &ticket.BeforePhotos); err != nil {
		return nil, fmt.Errorf("decode before photos: %w", err)
	}
	if err := json.Unmarshal(enc.after, &ticket.AfterPhotos); err != nil {
		return nil, fmt.Errorf("decode after photos: %w", err)
	}
	if len(enc.completion) > 0 {
		ticket.CompletionReport = &domain.CompletionReport{}
		if err := json.Unmarshal(enc.completion, ticket.CompletionReport); err != nil {
			return nil, fmt.Errorf("decode completion report: %w", err)
		}
	}
	if len(enc.additional) > 0 {
		ticket.AdditionalInfo = &domain.AdditionalInfo{}
		if err := json.Unmarshal(enc.additional, ticket.AdditionalInfo); err != nil {
			return nil, fmt.Errorf("decode additional info: %w", err)
		}
	}
	return &ticket, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
