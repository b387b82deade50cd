package logger

import (
	"os"

	"oncobilling-service/internal/pkg/constvars"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger builds the process logger used by command line tools.
// Output goes to stderr so it never mixes with a command's stdout.
func NewLogrusLogger(env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	switch env {
	case constvars.AppEnvProduction:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		parsedLevel = logrus.InfoLevel
	}
	logger.SetLevel(parsedLevel)
	return logger
}
