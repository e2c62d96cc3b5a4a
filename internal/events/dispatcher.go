package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, LiveEvent) error

// Hub fans live events out to subscribers of the target role.
type Hub interface {
	Publish(ctx context.Context, event LiveEvent) error
	// Subscribe registers handler for role. An empty role receives every event.
	// The returned func removes the subscription.
	Subscribe(role domain.StaffRole, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// MemoryHub is a synchronous in-process hub.
type MemoryHub struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[domain.StaffRole][]subscription
	logger    *zap.Logger
}

// NewMemoryHub creates a hub instance.
func NewMemoryHub(logger *zap.Logger) *MemoryHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryHub{
		listeners: make(map[domain.StaffRole][]subscription),
		logger:    logger,
	}
}

// Publish synchronously invokes handlers for the event's role and wildcard
// subscribers. Handler failures are logged and do not stop delivery.
func (h *MemoryHub) Publish(ctx context.Context, event LiveEvent) error {
	h.mu.RLock()
	subs := append([]subscription{}, h.listeners[event.TargetRole]...)
	if event.TargetRole != "" {
		subs = append(subs, h.listeners[""]...)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil {
			h.logger.Warn("live handler failed",
				zap.String("role", string(event.TargetRole)),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (h *MemoryHub) Subscribe(role domain.StaffRole, handler EventHandler) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[role] = append(h.listeners[role], subscription{id: id, handler: handler})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			subs := h.listeners[role]
			for i, sub := range subs {
				if sub.id == id {
					h.listeners[role] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers reports the number of active handlers for role.
func (h *MemoryHub) Subscribers(role domain.StaffRole) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[role])
}
