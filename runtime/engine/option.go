package engine

import "github.com/rs/zerolog"

// Option customises the dispatcher.
type Option func(*Service)

// WithLogger replaces the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMaxAttempts bounds whole-run retries. Values below one fall back to a
// single attempt.
func WithMaxAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts < 1 {
			attempts = 1
		}
		s.maxAttempts = attempts
	}
}
