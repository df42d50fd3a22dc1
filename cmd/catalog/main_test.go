package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	logger, err := initLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = initLogger("error")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	logger, err := initLogger("loud")

	assert.ErrorContains(t, err, `invalid LOG_LEVEL "loud"`)
	assert.Nil(t, logger)
}
