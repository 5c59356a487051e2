package procdesc

import "github.com/sirupsen/logrus"

// Option configures Build.
type Option func(*builder)

// WithLogger routes Build's warnings (duplicate edges, case-variant
// spellings, dropped units/edges) through logger instead of the
// package-level standard logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(b *builder) {
		b.log = logrus.NewEntry(logger)
	}
}
