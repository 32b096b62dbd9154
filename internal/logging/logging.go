// Package logging provides the project-wide structured logger. The engine
// logs through this single instance rather than the package-level logrus
// default so hosts can redirect output (file, syslog, test buffer) in one
// place.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// Logger returns the project-wide logger, constructing it on first use.
func Logger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return logger
}

// WithFields is shorthand for Logger().WithFields, used at the handful of
// call sites that attach structured context (frame drops, sink errors,
// loop lifecycle).
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger().WithFields(fields)
}
