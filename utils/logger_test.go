package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLoggerDefaults(t *testing.T) {
	InitLogger()

	assert.Equal(t, logrus.InfoLevel, InfoLogger.GetLevel())
	assert.Equal(t, logrus.ErrorLevel, ErrorLogger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, InfoLogger.Formatter)
}

func TestSetupLogger(t *testing.T) {
	SetupLogger("debug", "JSON")
	assert.Equal(t, logrus.DebugLevel, InfoLogger.GetLevel())
	assert.Equal(t, logrus.ErrorLevel, ErrorLogger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, InfoLogger.Formatter)
	assert.IsType(t, &logrus.JSONFormatter{}, ErrorLogger.Formatter)

	SetupLogger("chatty", "")
	assert.Equal(t, logrus.InfoLevel, InfoLogger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, InfoLogger.Formatter)
}
