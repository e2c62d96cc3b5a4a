package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// StaffRepository handles persistence for the staff roster.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role *domain.StaffRole
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (id, name, role, position, monthly_schedule, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	schedule, err := json.Marshal(staff.MonthlySchedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		staff.ID,
		staff.Name,
		staff.Role,
		staff.Position,
		schedule,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	return err
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET name=$1, role=$2, position=$3, monthly_schedule=$4, updated_at=$5
        WHERE id=$6`
	schedule, err := json.Marshal(staff.MonthlySchedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	cmd, err := r.pool.Exec(ctx, query,
		staff.Name,
		staff.Role,
		staff.Position,
		schedule,
		staff.UpdatedAt,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	const query = `
        SELECT id, name, role, position, monthly_schedule, created_at, updated_at
        FROM staff_members WHERE id=$1`
	staff, err := scanStaff(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return staff, err
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	query := `
        SELECT id, name, role, position, monthly_schedule, created_at, updated_at
        FROM staff_members`
	args := []any{}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		query += fmt.Sprintf(" WHERE role=$%d", len(args))
	}
	query += " ORDER BY created_at ASC, name ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.StaffMember{}
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var (
		staff    domain.StaffMember
		schedule []byte
	)
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Role,
		&staff.Position,
		&schedule,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	staff.MonthlySchedule = map[string]domain.ShiftLabel{}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &staff.MonthlySchedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
	}
	return &staff, nil
}
