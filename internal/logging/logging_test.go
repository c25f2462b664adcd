package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvr2plex-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.name, got, tt.want)
		}
	}
}

func TestConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(config.LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Debug("hidden")
	l.WithField("series", "Castle").Info("matched")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "matched")
	assert.Contains(t, buf.String(), "series=Castle")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dvr2plex.log")

	var buf bytes.Buffer
	l, err := NewWithWriter(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	l.Debug("to both")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestUnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(config.LogConfig{Level: "chatty"}, &buf)
	require.NoError(t, err)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}
