package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreaker(cooldown time.Duration) Breaker {
	return New(nil, "test-provider", Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Cooldown:         cooldown,
	})
}

func TestBreakerStartsClosed(t *testing.T) {
	cb := newBreaker(time.Minute)
	assert.Equal(t, Closed, cb.GetState())
	assert.True(t, cb.CanExecute())
}

func TestBreakerOpensAtFailureThreshold(t *testing.T) {
	cb := newBreaker(time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, Closed, cb.GetState())

	cb.RecordFailure()
	assert.Equal(t, Open, cb.GetState())
	assert.False(t, cb.CanExecute())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := newBreaker(time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	assert.Equal(t, Closed, cb.GetState())
}

func TestBreakerHalfOpensAfterCooldown(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for range 3 {
		cb.RecordFailure()
	}
	require.Equal(t, Open, cb.GetState())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, cb.CanExecute())
	assert.Equal(t, HalfOpen, cb.GetState())
}

func TestBreakerClosesAfterSuccessThresholdInHalfOpen(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for range 3 {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)
	require.True(t, cb.CanExecute())

	cb.RecordSuccess()
	assert.Equal(t, HalfOpen, cb.GetState())
	cb.RecordSuccess()
	assert.Equal(t, Closed, cb.GetState())
}

func TestBreakerReopensOnFailureInHalfOpen(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for range 3 {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)
	require.True(t, cb.CanExecute())

	cb.RecordFailure()
	assert.Equal(t, Open, cb.GetState())
	assert.False(t, cb.CanExecute())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Closed", Closed.String())
	assert.Equal(t, "Open", Open.String())
	assert.Equal(t, "HalfOpen", HalfOpen.String())
}
