package ticketid

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemorySequencer keeps per-day counters in process memory.
type MemorySequencer struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMemorySequencer constructs an empty sequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{counters: make(map[string]int)}
}

// Next seeds the day on first use and then increments under the lock.
func (s *MemorySequencer) Next(ctx context.Context, dayKey string, seed SeedFunc) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.counters[dayKey]
	if !ok {
		count, err := seed(ctx)
		if err != nil {
			return 0, fmt.Errorf("seed sequence %s: %w", dayKey, err)
		}
		current = count
	}
	if current >= MaxPerDay {
		s.counters[dayKey] = current
		return current + 1, nil
	}
	current++
	s.counters[dayKey] = current
	return current, nil
}

// Release drops the day's counter when seq is still its latest value.
func (s *MemorySequencer) Release(_ context.Context, dayKey string, seq int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.counters[dayKey]; ok && current == seq {
		delete(s.counters, dayKey)
	}
	return nil
}

const (
	redisSeqPrefix = "maintenance:ticket-seq:"
	redisSeqTTL    = 48 * time.Hour
)

// RedisSequencer uses INCR so several service instances never share a number.
type RedisSequencer struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisSequencer wraps a redis client.
func NewRedisSequencer(client redis.Cmdable) *RedisSequencer {
	return &RedisSequencer{client: client, ttl: redisSeqTTL}
}

// Next seeds the key with SETNX from stored tickets, then increments it.
func (s *RedisSequencer) Next(ctx context.Context, dayKey string, seed SeedFunc) (int, error) {
	key := redisSeqPrefix + dayKey
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("check sequence key: %w", err)
	}
	if exists == 0 {
		count, err := seed(ctx)
		if err != nil {
			return 0, fmt.Errorf("seed sequence %s: %w", dayKey, err)
		}
		if err := s.client.SetNX(ctx, key, count, s.ttl).Err(); err != nil {
			return 0, fmt.Errorf("seed sequence key: %w", err)
		}
	}
	next, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}
	return int(next), nil
}

// releaseScript deletes the key only while it still holds the released number.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`

// Release deletes the day key if no other instance has incremented it since.
func (s *RedisSequencer) Release(ctx context.Context, dayKey string, seq int) error {
	if err := s.client.Eval(ctx, releaseScript, []string{redisSeqPrefix + dayKey}, strconv.Itoa(seq)).Err(); err != nil {
		return fmt.Errorf("release sequence %s: %w", dayKey, err)
	}
	return nil
}
