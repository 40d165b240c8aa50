package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("text too short"), http.StatusBadRequest},
		{"insufficient text", Acquisition(http.StatusUnprocessableEntity, "not enough text", nil), http.StatusUnprocessableEntity},
		{"acquisition default", Acquisition(0, "ffmpeg failed", errors.New("exit 1")), http.StatusInternalServerError},
		{"oracle", Oracle(errors.New("dial tcp")), http.StatusBadGateway},
		{"wrapped", fmt.Errorf("acquiring: %w", Validation("bad url")), http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestAsUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("invoking: %w", Oracle(cause))

	fe, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CategoryOracle, fe.Category)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CategoryOracle))
	assert.False(t, Is(err, CategoryValidation))
	assert.Contains(t, err.Error(), "connection reset")
}
