package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_MapsEveryKind(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindAuthRequired: http.StatusUnauthorized,
		KindAuthInvalid:  http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindRateLimited:  http.StatusTooManyRequests,
		KindRenderFailed: http.StatusInternalServerError,
		KindInternal:     http.StatusInternalServerError,
	}

	for kind, status := range cases {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, status, Status(kind))
		})
	}
}

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("service layer: %w", NotFound("Blog not found"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestRenderFailed_KeepsCause(t *testing.T) {
	cause := errors.New("chromium crashed")
	err := RenderFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.Status())
	assert.Equal(t, "Failed to generate PDF", err.Message)
}
