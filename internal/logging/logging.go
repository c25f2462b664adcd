package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"dvr2plex-go/internal/config"
)

// Logger is a logrus logger that may also own a rotating log file.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New creates a logger writing to stderr, and also to cfg.File when set.
// Standard output is left for the rendered results.
func New(cfg config.LogConfig) (*Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with a different console writer.
func NewWithWriter(cfg config.LogConfig, console io.Writer) (*Logger, error) {
	l := &Logger{Logger: logrus.New()}
	level, levelErr := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})

	out := console
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, err
		}
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = io.MultiWriter(console, l.file)
	}
	l.SetOutput(out)
	if levelErr != nil && cfg.Level != "" {
		l.WithField("level", cfg.Level).Warn("unknown log level, using info")
	}
	return l, nil
}

// ParseLevel maps a configured level name to a logrus level. Unknown names
// give InfoLevel. "warning" and "WARN" are both accepted.
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
