package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	t.Run("keeps wrapped app error", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", NotFound("No user with that email"))
		got := FromError(err)
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, "No user with that email", got.Message)
	})

	t.Run("store failure exposes message", func(t *testing.T) {
		got := FromError(errors.New("connection refused"))
		assert.Equal(t, KindUnclassified, got.Kind)
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "connection refused", got.Message)
	})

	t.Run("empty message falls back", func(t *testing.T) {
		got := FromError(errors.New(""))
		assert.Equal(t, "Server Error", got.Message)
	})
}

func TestDuplicateIsBadRequest(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Duplicate("Duplicate field value entered").Status)
}
