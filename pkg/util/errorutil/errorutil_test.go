package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", apperrors.NewConflict("already submitted", nil))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.False(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.False(t, apperrors.HasCode(errors.New("plain"), apperrors.CodeConflict))
	assert.False(t, apperrors.HasCode(nil, apperrors.CodeConflict))
}

func TestToDomainError(t *testing.T) {
	t.Run("keeps domain errors", func(t *testing.T) {
		de := apperrors.ToDomainError(apperrors.NewCapacityExceeded("full", nil))
		require.NotNil(t, de)
		assert.Equal(t, apperrors.CodeCapacityExceeded, de.Code)
		assert.Equal(t, http.StatusInsufficientStorage, de.HTTPStatus)
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(apperrors.ErrNotFound).Code)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(pgx.ErrNoRows).Code)
	})

	t.Run("hides unknown errors", func(t *testing.T) {
		de := apperrors.ToDomainError(errors.New("boom"))
		assert.Equal(t, apperrors.CodeInternal, de.Code)
		assert.Equal(t, "internal server error", de.Message)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, apperrors.ToDomainError(nil))
		assert.NoError(t, apperrors.MapError(nil))
	})
}
