// Package seed loads the plant catalog, shift windows and initial roster
// from a YAML file.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// Staff is a roster entry as written in the seed file.
type Staff struct {
	ID       string                       `yaml:"id"`
	Name     string                       `yaml:"name"`
	Role     domain.StaffRole             `yaml:"role"`
	Position string                       `yaml:"position"`
	Schedule map[string]domain.ShiftLabel `yaml:"schedule"`
}

// File is the seed document.
type File struct {
	MasterData   domain.MasterData   `yaml:"master_data"`
	ShiftWindows domain.ShiftWindows `yaml:"shift_windows"`
	Staff        []Staff             `yaml:"staff"`
}

// Defaults is used when no seed file is configured.
func Defaults() *File {
	return &File{
		MasterData: domain.MasterData{
			Lines: []string{"A 라인", "B 라인", "C 라인", "D 라인"},
			Equipment: []domain.Equipment{
				{Line: "A 라인", Name: "프레스 #1", Code: "PR-A-001"},
				{Line: "A 라인", Name: "프레스 #2", Code: "PR-A-002"},
				{Line: "B 라인", Name: "컨베이어 #1", Code: "CV-B-001"},
				{Line: "B 라인", Name: "로봇 암 #1", Code: "RB-B-001"},
				{Line: "C 라인", Name: "용접기 #1", Code: "WD-C-001"},
			},
			Symptoms:          []string{"소음 발생", "과열 의심", "정지 발생", "누유 발견", "기타"},
			SymptomCategories: []string{"소음/진동", "과열", "누유/누수", "정지/오류", "오류코드", "기타"},
			Parts: []domain.Part{
				{Code: "PT-001", Name: "베어링", Category: "기계부품"},
				{Code: "PT-002", Name: "벨트", Category: "소모품"},
				{Code: "PT-003", Name: "필터", Category: "소모품"},
				{Code: "PT-004", Name: "센서", Category: "전기부품"},
				{Code: "PT-005", Name: "유압호스", Category: "유압부품"},
			},
		},
		ShiftWindows: domain.DefaultShiftWindows(),
	}
}

// Load reads path, or returns Defaults when path is empty. Sections missing
// from the file fall back to their defaults.
func Load(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a seed document, rejecting unknown keys.
func Parse(raw []byte) (*File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	defaults := Defaults()
	if reflect.DeepEqual(file.MasterData, domain.MasterData{}) {
		file.MasterData = defaults.MasterData
	}
	if len(file.ShiftWindows) == 0 {
		file.ShiftWindows = defaults.ShiftWindows
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks windows, roles and schedule labels.
func (f *File) Validate() error {
	if err := f.ShiftWindows.Validate(); err != nil {
		return fmt.Errorf("shift_windows: %w", err)
	}
	seen := map[string]struct{}{}
	for i, s := range f.Staff {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("staff[%d]: id and name are required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("staff[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
		if !s.Role.Valid() {
			return fmt.Errorf("staff[%d]: unknown role %q", i, s.Role)
		}
		for key, label := range s.Schedule {
			if _, err := time.Parse(domain.DateKeyLayout, key); err != nil {
				return fmt.Errorf("staff[%d]: bad schedule date %q", i, key)
			}
			if !label.Valid() {
				return fmt.Errorf("staff[%d]: unknown shift %q on %s", i, label, key)
			}
		}
	}
	return nil
}

// Members converts the seeded roster to domain values stamped at now.
func (f *File) Members(now time.Time) []domain.StaffMember {
	out := make([]domain.StaffMember, 0, len(f.Staff))
	for _, s := range f.Staff {
		schedule := make(map[string]domain.ShiftLabel, len(s.Schedule))
		for k, v := range s.Schedule {
			if v != domain.ShiftOff {
				schedule[k] = v
			}
		}
		out = append(out, domain.StaffMember{
			ID:              s.ID,
			Name:            strings.TrimSpace(s.Name),
			Role:            s.Role,
			Position:        strings.TrimSpace(s.Position),
			MonthlySchedule: schedule,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return out
}

// Apply inserts seeded staff that do not exist yet and stores the seeded
// shift windows unless an admin has already changed them from the defaults.
func (f *File) Apply(ctx context.Context, staff repository.StaffRepository, settings repository.SettingsRepository, now time.Time, logger *zap.Logger) error {
	created := 0
	for _, member := range f.Members(now) {
		_, err := staff.GetByID(ctx, member.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("lookup staff %s: %w", member.ID, err)
		}
		m := member
		if err := staff.Create(ctx, &m); err != nil {
			return fmt.Errorf("seed staff %s: %w", member.ID, err)
		}
		created++
	}

	stored, err := settings.ShiftWindows(ctx)
	if err != nil {
		return fmt.Errorf("load shift windows: %w", err)
	}
	if reflect.DeepEqual(stored, domain.DefaultShiftWindows()) && !reflect.DeepEqual(stored, f.ShiftWindows) {
		if err := settings.SaveShiftWindows(ctx, f.ShiftWindows); err != nil {
			return fmt.Errorf("seed shift windows: %w", err)
		}
	}

	if logger != nil {
		logger.Info("seed applied", zap.Int("staff_created", created), zap.Int("staff_total", len(f.Staff)))
	}
	return nil
}
