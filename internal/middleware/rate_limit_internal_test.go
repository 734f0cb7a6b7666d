package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_EvictsIdleKeys(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	l := NewKeyedLimiter(0, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	now = now.Add(limiterIdleTTL / 2)
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())

	now = now.Add(limiterIdleTTL/2 + time.Minute)
	assert.False(t, l.Allow("b"))
	assert.Equal(t, 1, l.Len())

	// "a" was dropped so it gets a fresh burst.
	assert.True(t, l.Allow("a"))
}
