package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
)

const sample = `
master_data:
  lines: ["Line 1"]
  parts:
    - {code: P-1, name: Bearing, category: Mechanical}
shift_windows:
  MORNING: {start: 7, end: 15}
  AFTERNOON: {start: 15, end: 23}
  NIGHT: {start: 23, end: 7}
staff:
  - id: tech-1
    name: Lee
    role: MAINTENANCE
    position: Lead
    schedule:
      "2025-01-15": MORNING
      "2025-01-16": OFF
`

func TestParse(t *testing.T) {
	file, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Line 1"}, file.MasterData.Lines)
	assert.Equal(t, 7, file.ShiftWindows[domain.ShiftMorning].StartHour)
	require.Len(t, file.Staff, 1)

	members := file.Members(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, members, 1)
	assert.Equal(t, domain.ShiftMorning, members[0].ShiftOn("2025-01-15"))
	assert.NotContains(t, members[0].MonthlySchedule, "2025-01-16")
}

func TestParseFallsBackToDefaults(t *testing.T) {
	file, err := Parse([]byte("staff: []\n"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().MasterData, file.MasterData)
	assert.Equal(t, domain.DefaultShiftWindows(), file.ShiftWindows)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultShiftWindows(), empty.ShiftWindows)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "bogus: 1\n",
		"bad role":      "staff:\n  - {id: a, name: A, role: ADMIN}\n",
		"bad shift":     "staff:\n  - {id: a, name: A, role: PRODUCTION, schedule: {\"2025-01-01\": EVENING}}\n",
		"bad date":      "staff:\n  - {id: a, name: A, role: PRODUCTION, schedule: {\"01/01\": MORNING}}\n",
		"duplicate id":  "staff:\n  - {id: a, name: A, role: PRODUCTION}\n  - {id: a, name: B, role: PRODUCTION}\n",
		"missing name":  "staff:\n  - {id: a, role: PRODUCTION}\n",
		"window hours":  "shift_windows:\n  MORNING: {start: 6, end: 25}\n  AFTERNOON: {start: 14, end: 22}\n  NIGHT: {start: 22, end: 6}\n",
		"missing label": "shift_windows:\n  MORNING: {start: 6, end: 14}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	file, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, file.MasterData.Equipment)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	file, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, file.Staff, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyIsIdempotentAndKeepsAdminWindows(t *testing.T) {
	ctx := context.Background()
	file, err := Parse([]byte(sample))
	require.NoError(t, err)

	staff := repository.NewMemoryStaffRepository()
	settings := repository.NewMemorySettingsRepository(nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, file.Apply(ctx, staff, settings, now, nil))
	require.NoError(t, file.Apply(ctx, staff, settings, now, nil))

	list, err := staff.List(ctx, repository.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	windows, err := settings.ShiftWindows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, windows[domain.ShiftMorning].StartHour)

	custom := domain.DefaultShiftWindows()
	custom[domain.ShiftMorning] = domain.ShiftWindow{StartHour: 5, EndHour: 14}
	require.NoError(t, settings.SaveShiftWindows(ctx, custom))
	require.NoError(t, file.Apply(ctx, staff, settings, now, nil))
	windows, err = settings.ShiftWindows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, windows[domain.ShiftMorning].StartHour)
}

func TestExampleSeedFileParses(t *testing.T) {
	file, err := Load(filepath.Join("..", "..", "configs", "seed.example.yaml"))
	require.NoError(t, err)
	require.Len(t, file.Staff, 3)
	assert.Equal(t, domain.DefaultShiftWindows(), file.ShiftWindows)

	members := file.Members(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, m := range members {
		if m.ID == "mnt-lee" {
			assert.NotContains(t, m.MonthlySchedule, "2025-01-16")
		}
	}
}
