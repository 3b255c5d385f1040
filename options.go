package biscuit

import "github.com/hupe1980/biscuit/engine"

type options struct {
	engineOpts []engine.Option
}

// Option configures an Index.
type Option func(*options)

// WithTombstoneThreshold sets the tombstone count at which a bulk delete
// triggers compaction. Default: 1000.
func WithTombstoneThreshold(n int) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, engine.WithTombstoneThreshold(n))
	}
}

// WithInitialCapacity pre-sizes the index for an expected record count.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, engine.WithInitialCapacity(n))
	}
}

// WithLogger sets the structured logger. Default discards all output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.engineOpts = append(o.engineOpts, engine.WithLogger(l.Logger))
		}
	}
}

// WithMetrics sets the metrics observer for engine events.
func WithMetrics(m engine.MetricsObserver) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, engine.WithMetrics(m))
	}
}
