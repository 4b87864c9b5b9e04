package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGameID sets the game every hit is recorded against.
func WithGameID(id int) Option {
	return func(s *Service) {
		if id > 0 {
			s.gameID = id
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventIDs replaces the random event id generator.
func WithEventIDs(next func() uuid.UUID) Option {
	return func(s *Service) {
		if next != nil {
			s.nextID = next
		}
	}
}
