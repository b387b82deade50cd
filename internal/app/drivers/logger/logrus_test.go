package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogrusLogger(t *testing.T) {
	t.Run("production uses the JSON formatter", func(t *testing.T) {
		logger := NewLogrusLogger("production", "warn")

		assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
		assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := NewLogrusLogger("development", "loud")

		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	})
}
