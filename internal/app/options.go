package service

import (
	"time"

	"github.com/okian/scorecard/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets a custom logger for the loader.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithDedupeSize sets how many natural keys are remembered within a run.
func WithDedupeSize(size int) Option {
	return func(ld *Loader) {
		if size > 0 {
			ld.dedupeSize = size
		}
	}
}

// WithClock replaces the time source used for durations.
func WithClock(now func() time.Time) Option {
	return func(ld *Loader) {
		if now != nil {
			ld.now = now
		}
	}
}
