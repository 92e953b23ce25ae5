package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reunion/internal/model"
)

func TestMessage(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		subject, body, ok := message("John Doe", model.StatusPaid)
		assert.True(t, ok)
		assert.Contains(t, subject, "confirmed")
		assert.Contains(t, body, "John Doe")
		assert.Contains(t, body, "confirmed")
	})

	t.Run("rejected", func(t *testing.T) {
		subject, body, ok := message("John Doe", model.StatusRejected)
		assert.True(t, ok)
		assert.Contains(t, subject, "could not be verified")
		assert.Contains(t, body, "John Doe")
		assert.NotContains(t, body, "confirmed")
	})

	t.Run("pending produces no mail", func(t *testing.T) {
		_, _, ok := message("John Doe", model.StatusPending)
		assert.False(t, ok)
	})
}
