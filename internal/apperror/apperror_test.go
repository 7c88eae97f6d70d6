package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("job not found"), KindNotFound},
		{"forbidden", Forbidden("not the creator"), KindForbidden},
		{"conflict", Conflict("already published"), KindConflict},
		{"wrapped", fmt.Errorf("outer: %w", Conflict("x")), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestError_UnwrapAndStack(t *testing.T) {
	cause := errors.New("rows affected = 0")
	err := Internal("update failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL: update failed: rows affected = 0", err.Error())
	assert.NotEmpty(t, err.StackTrace())
	assert.Equal(t, "update failed", MessageOf(fmt.Errorf("ctx: %w", err)))
}

func TestError_WithoutCause(t *testing.T) {
	err := NotFound("job not found")
	assert.Equal(t, "NOT_FOUND: job not found", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
