package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("name is required"), KindValidation},
		{"conflict", Conflict("duplicate"), KindConflict},
		{"reference", Reference("missing"), KindReference},
		{"not found", NotFound("gone"), KindNotFound},
		{"persistence", Persistence("failed", errors.New("disk full")), KindPersistence},
		{"wrapped", fmt.Errorf("create: %w", Conflict("duplicate")), KindConflict},
		{"foreign error", errors.New("boom"), KindPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessage_DoesNotLeakCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Persistence("An error occurred while adding the customer", cause)

	assert.Equal(t, "An error occurred while adding the customer", Message(err, "fallback"))
	assert.Equal(t, "fallback", Message(cause, "fallback"))
	assert.ErrorIs(t, err, cause)
}

func TestUserFacing(t *testing.T) {
	assert.True(t, UserFacing(Validation("x")))
	assert.True(t, UserFacing(Conflict("x")))
	assert.True(t, UserFacing(Reference("x")))
	assert.True(t, UserFacing(NotFound("x")))
	assert.False(t, UserFacing(Persistence("x", nil)))
	assert.False(t, UserFacing(errors.New("x")))
	assert.True(t, Is(fmt.Errorf("wrap: %w", Reference("x")), KindReference))
}
