package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

const shiftWindowsKey = "shift_windows"

// SettingsRepository stores admin-tunable configuration.
type SettingsRepository interface {
	ShiftWindows(ctx context.Context) (domain.ShiftWindows, error)
	SaveShiftWindows(ctx context.Context, windows domain.ShiftWindows) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates the postgres settings store.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

// ShiftWindows returns the stored windows, or the defaults when none are saved.
func (r *settingsRepository) ShiftWindows(ctx context.Context) (domain.ShiftWindows, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key=$1`, shiftWindowsKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultShiftWindows(), nil
	}
	if err != nil {
		return nil, err
	}
	windows := domain.ShiftWindows{}
	if err := json.Unmarshal(raw, &windows); err != nil {
		return nil, fmt.Errorf("decode shift windows: %w", err)
	}
	return windows, nil
}

func (r *settingsRepository) SaveShiftWindows(ctx context.Context, windows domain.ShiftWindows) error {
	const query = `
        INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	raw, err := json.Marshal(windows)
	if err != nil {
		return fmt.Errorf("encode shift windows: %w", err)
	}
	_, err = r.pool.Exec(ctx, query, shiftWindowsKey, raw)
	return err
}
