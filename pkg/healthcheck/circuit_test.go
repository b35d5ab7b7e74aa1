package healthcheck

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func newTestBreaker(now *time.Time, transitions *[]string) *CircuitBreaker {
	return NewCircuitBreaker("redis", CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
		Now:              func() time.Time { return *now },
		OnStateChange: func(name string, from, to CircuitBreakerState) {
			*transitions = append(*transitions, from.String()+"->"+to.String())
		},
	})
}

func TestCircuitBreaker(t *testing.T) {
	fail := func() error { return errBoom }
	succeed := func() error { return nil }

	t.Run("OpensAfterConsecutiveFailures", func(t *testing.T) {
		now := time.Unix(0, 0)
		var transitions []string
		cb := newTestBreaker(&now, &transitions)

		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Execute(fail), errBoom)
		}

		assert.Equal(t, StateOpen, cb.State())
		assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitOpen)
		assert.Equal(t, []string{"closed->open"}, transitions)
	})

	t.Run("SuccessResetsFailureCount", func(t *testing.T) {
		now := time.Unix(0, 0)
		var transitions []string
		cb := newTestBreaker(&now, &transitions)

		cb.Execute(fail)
		cb.Execute(fail)
		cb.Execute(succeed)
		cb.Execute(fail)
		cb.Execute(fail)

		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("HalfOpenClosesAfterSuccesses", func(t *testing.T) {
		now := time.Unix(0, 0)
		var transitions []string
		cb := newTestBreaker(&now, &transitions)
		for i := 0; i < 3; i++ {
			cb.Execute(fail)
		}

		now = now.Add(time.Minute)
		assert.NoError(t, cb.Execute(succeed))
		assert.Equal(t, StateHalfOpen, cb.State())
		assert.NoError(t, cb.Execute(succeed))

		assert.Equal(t, StateClosed, cb.State())
		assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
	})

	t.Run("HalfOpenFailureReopens", func(t *testing.T) {
		now := time.Unix(0, 0)
		var transitions []string
		cb := newTestBreaker(&now, &transitions)
		for i := 0; i < 3; i++ {
			cb.Execute(fail)
		}

		now = now.Add(2 * time.Minute)
		cb.Execute(fail)

		assert.Equal(t, StateOpen, cb.State())
		assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitOpen)
	})

	t.Run("Reset_ShouldClose", func(t *testing.T) {
		now := time.Unix(0, 0)
		var transitions []string
		cb := newTestBreaker(&now, &transitions)
		for i := 0; i < 3; i++ {
			cb.Execute(fail)
		}

		cb.Reset()

		assert.Equal(t, StateClosed, cb.State())
		assert.NoError(t, cb.Execute(succeed))
	})
}
