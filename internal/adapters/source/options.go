package source

import "github.com/okian/scorecard/pkg/logger"

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithPrefetch sets how many decoded documents may wait ahead of the consumer.
// Zero makes reading and consuming lockstep.
func WithPrefetch(n int) Option {
	return func(r *Reader) {
		if n >= 0 {
			r.prefetch = n
		}
	}
}

// WithLogger sets the logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// WithReadFile replaces how file contents are loaded.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(r *Reader) {
		if fn != nil {
			r.readFile = fn
		}
	}
}
