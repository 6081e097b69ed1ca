package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewIsSilent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Log.Error("dropped")
	assert.Empty(t, buf.String())
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"debug", true, true},
		{"warn", false, true},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf)
			require.NoError(t, l.Init(tt.level))

			l.Log.Debug("debug line", zap.String("k", "v"))
			l.Log.Warn("warn line")
			require.NoError(t, l.Log.Sync())

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn line"))
		})
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	l := New(nil)
	assert.Equal(t, os.Stderr, l.out)
	assert.Error(t, l.Init("loud"))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "debug", Level(true))
	assert.Equal(t, "warn", Level(false))
}
