package pipeline

import "github.com/sirupsen/logrus"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes the engine's diagnostic logging through logger
// instead of the package-level standard logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = logrus.NewEntry(logger)
	}
}
