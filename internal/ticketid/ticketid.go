// Package ticketid allocates date-scoped sequential ticket identifiers of the
// form REQ-YYYYMMDD-NNN.
package ticketid

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

const (
	// MaxPerDay is the largest sequence a three digit counter can hold.
	MaxPerDay = 999

	dayLayout = "20060102"
)

// DayKey returns the YYYYMMDD key for now's calendar day.
func DayKey(now time.Time) string {
	return now.Format(dayLayout)
}

// DayPrefix returns the id prefix shared by all tickets created on now's day.
func DayPrefix(now time.Time) string {
	return "REQ-" + DayKey(now) + "-"
}

// Format renders the id for sequence seq on now's day.
func Format(now time.Time, seq int) (string, error) {
	if seq < 1 || seq > MaxPerDay {
		return "", apperrors.NewCapacityExceeded("daily ticket id space exhausted", map[string]any{
			"day":      DayKey(now),
			"sequence": seq,
		})
	}
	return fmt.Sprintf("%s%03d", DayPrefix(now), seq), nil
}

// NextID derives the next id from the ids that already exist: one more than
// the number sharing today's prefix. Callers must serialize creation.
func NextID(existingIDs []string, now time.Time) (string, error) {
	prefix := DayPrefix(now)
	count := 0
	for _, id := range existingIDs {
		if strings.HasPrefix(id, prefix) {
			count++
		}
	}
	return Format(now, count+1)
}

// SeedFunc reports how many ids already exist for a day prefix.
type SeedFunc func(ctx context.Context) (int, error)

// Sequencer hands out increasing per-day counters.
type Sequencer interface {
	Next(ctx context.Context, dayKey string, seed SeedFunc) (int, error)
	// Release returns seq if it is still the day's latest number, so the
	// next call re-seeds from stored tickets.
	Release(ctx context.Context, dayKey string, seq int) error
}

// Counter counts stored tickets whose id starts with prefix.
type Counter interface {
	CountByIDPrefix(ctx context.Context, prefix string) (int, error)
}

// Generator allocates ids from a Sequencer seeded by stored tickets.
type Generator struct {
	seq     Sequencer
	counter Counter
}

// NewGenerator builds a generator.
func NewGenerator(seq Sequencer, counter Counter) *Generator {
	return &Generator{seq: seq, counter: counter}
}

// Next returns the id for the next ticket created at now.
func (g *Generator) Next(ctx context.Context, now time.Time) (string, error) {
	prefix := DayPrefix(now)
	seq, err := g.seq.Next(ctx, DayKey(now), func(ctx context.Context) (int, error) {
		return g.counter.CountByIDPrefix(ctx, prefix)
	})
	if err != nil {
		return "", err
	}
	return Format(now, seq)
}

// Release gives back an id from Next whose ticket was never stored.
func (g *Generator) Release(ctx context.Context, now time.Time, id string) error {
	seq, err := strconv.Atoi(strings.TrimPrefix(id, DayPrefix(now)))
	if err != nil {
		return fmt.Errorf("release %q: %w", id, err)
	}
	return g.seq.Release(ctx, DayKey(now), seq)
}
