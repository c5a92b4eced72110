package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeLoggerReplacesGlobal(t *testing.T) {
	InitializeLogger()
	require.NotNil(t, Logger)

	// Packages that log through zap.L() must get the configured logger,
	// not zap's default no-op.
	assert.Same(t, Logger, zap.L())
}

func TestGetLoggerInitializesOnce(t *testing.T) {
	Logger = nil
	first := GetLogger()
	require.NotNil(t, first)
	assert.Same(t, first, GetLogger())
}
