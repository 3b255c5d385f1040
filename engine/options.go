package engine

import "log/slog"

// DefaultTombstoneThreshold is the tombstone count at which a bulk delete
// triggers compaction.
const DefaultTombstoneThreshold = 1000

type config struct {
	tombstoneThreshold int
	initialCapacity    int
	logger             *slog.Logger
	metrics            MetricsObserver
}

// Option configures an Engine.
type Option func(*config)

// WithTombstoneThreshold sets the tombstone count that triggers
// compaction. Values < 1 compact after every delete batch that removed
// something.
func WithTombstoneThreshold(n int) Option {
	return func(c *config) {
		c.tombstoneThreshold = n
	}
}

// WithInitialCapacity pre-sizes the slot table for an expected record
// count.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initialCapacity = n
		}
	}
}

// WithLogger sets the structured logger. Default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics observer.
func WithMetrics(m MetricsObserver) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}
