package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production uses JSON for log aggregation,
// anything else the human-readable text formatter.
func New(env, level string) *logrus.Logger {
	return NewWithOutput(os.Stdout, env, level)
}

func NewWithOutput(w io.Writer, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if strings.EqualFold(env, "production") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// WithSession scopes a logger to one simulation session.
func WithSession(l logrus.FieldLogger, sessionID, ownerID string) logrus.FieldLogger {
	return l.WithFields(logrus.Fields{
		"session": sessionID,
		"owner":   ownerID,
	})
}
