package memento

import "log/slog"

// Option configures a Mementor.
type Option func(*Mementor)

// WithTrackingEnabled sets whether marks are recorded initially.
// Default: true.
func WithTrackingEnabled(enabled bool) Option {
	return func(m *Mementor) {
		m.tracking = enabled
	}
}

// WithLogger sets the logger used for engine diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mementor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxUndo caps the undo stack; the oldest entries are dropped once the
// cap is exceeded. Zero or negative means unbounded (the default).
func WithMaxUndo(max int) Option {
	return func(m *Mementor) {
		if max < 0 {
			max = 0
		}
		m.maxUndo = max
	}
}
