package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

func TestLabels(t *testing.T) {
	assert.Equal(t, "접수완료", StatusLabel(domain.TicketStatusOpen))
	assert.Equal(t, "정비완료", StatusLabel(domain.TicketStatusCompleted))
	assert.Equal(t, "높음", PriorityLabel(domain.TicketPriorityHigh))
	assert.Equal(t, "야간", ShiftLabelText(domain.ShiftNight))
	assert.Equal(t, "휴무", ShiftLabelText(domain.ShiftOff))
	assert.Equal(t, "UNKNOWN", StatusLabel("UNKNOWN"))
}
