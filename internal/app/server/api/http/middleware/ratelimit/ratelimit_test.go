package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(1, 2, slog.Default())
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "burst spent")
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per ip")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "refilled")
}

func TestLimiter_Sweep(t *testing.T) {
	l := New(1, 1, slog.Default())
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(idleTTL / 2)
	l.Allow("10.0.0.2")
	now = now.Add(idleTTL/2 + time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.visitors, 1)
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.168.1.5", clientIP("192.168.1.5:53211"))
	assert.Equal(t, "::1", clientIP("[::1]:8080"))
	assert.Equal(t, "pipe", clientIP("pipe"))
}
