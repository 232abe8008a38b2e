package api

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerSettings tunes the circuit breaker around the transport. Zero
// values take the defaults below.
type BreakerSettings struct {
	Name             string
	ConsecutiveFails uint32
	OpenFor          time.Duration
	HalfOpenRequests uint32
}

func newBreaker(s BreakerSettings, log *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	if s.Name == "" {
		s.Name = "storefront-api"
	}
	if s.ConsecutiveFails == 0 {
		s.ConsecutiveFails = 5
	}
	if s.OpenFor <= 0 {
		s.OpenFor = 30 * time.Second
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}
	fails := s.ConsecutiveFails

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= fails
		},
		// Client errors are answers, not outages.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *Error
			return errors.As(err, &apiErr) && apiErr.Status < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			}
		},
	})
}
