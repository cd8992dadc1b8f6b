package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestBreaker(threshold int, openFor time.Duration) (*Breaker, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker(threshold, openFor)
	b.now = c.now
	return b, c
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(2, time.Second)

	assert.True(t, b.TryAcquire())
	b.OnFailure()
	assert.False(t, b.Open())
	assert.True(t, b.TryAcquire())
	b.OnFailure()
	assert.True(t, b.Open())
	assert.False(t, b.TryAcquire())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(2, time.Second)

	b.OnFailure()
	b.OnSuccess()
	b.OnFailure()
	assert.False(t, b.Open())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b, clk := newTestBreaker(1, time.Second)

	b.OnFailure()
	assert.False(t, b.TryAcquire())

	clk.t = clk.t.Add(2 * time.Second)
	assert.True(t, b.TryAcquire())
	assert.False(t, b.TryAcquire(), "only one probe at a time")

	b.OnFailure()
	assert.True(t, b.Open())
	assert.False(t, b.TryAcquire())

	clk.t = clk.t.Add(2 * time.Second)
	assert.True(t, b.TryAcquire())
	b.OnSuccess()
	assert.False(t, b.Open())
	assert.True(t, b.TryAcquire())
}

func TestNewBreakerDefaults(t *testing.T) {
	b := NewBreaker(0, 0)
	assert.Equal(t, 3, b.failThreshold)
	assert.Equal(t, 15*time.Second, b.openFor)
}
