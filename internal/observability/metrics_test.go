package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.TicketCreated()
	m.TicketCreated()
	m.TicketTransitioned("COMPLETED")
	m.NotificationDispatched("MAINTENANCE", true)
	m.NotificationDispatched("MAINTENANCE", false)
	m.NotificationDispatched("MAINTENANCE", false)
	m.SetDelayed(3)
	m.RecordRequest("/tickets", "GET", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("MAINTENANCE", "suppressed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications.WithLabelValues("MAINTENANCE", "delivered")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.delayed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/tickets", "GET", "200")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TicketCreated()
		m.NotificationDispatched("PRODUCTION", false)
		m.SetDelayed(1)
		m.RecordError("/", "GET", "X")
	})
}
