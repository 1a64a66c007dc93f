package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbergara/trip-planner/pkg/config"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "verbose", Format: "json", Output: "stdout"})
	assert.Error(t, err)
}

func TestNewWithTextFormat(t *testing.T) {
	logger, err := New(&config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestGlobalHelpersWithoutInit(t *testing.T) {
	prev := defaultLogger
	defaultLogger = nil
	t.Cleanup(func() { defaultLogger = prev })

	// Every package-level helper must tolerate an uninitialized logger.
	assert.NotPanics(t, func() {
		Debug("debug")
		Info("info")
		Warn("warn")
		Error("error")
		LogCache("airports:dataset", false, 0)
		LogSystem("airports", "refresh", true, map[string]interface{}{"count": 1})
		WithFields(Fields{"k": "v"}).Debug("fields")
		WithError(nil).Debug("err")
	})
}
