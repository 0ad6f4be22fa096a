package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		env     string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{name: "dev defaults to debug", env: "dev", enabled: zapcore.DebugLevel, muted: zapcore.DebugLevel - 1},
		{name: "prod defaults to info", env: "prod", enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
		{name: "explicit level", level: "warn", env: "prod", enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.env)

			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.muted))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "prod")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "zapcore.ParseLevel")
}
