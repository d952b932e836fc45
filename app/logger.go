package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/biosecret/go-todo/config"
)

// NewLogger tạo logger của ứng dụng theo ENV và LOG_LEVEL.
func NewLogger(s *config.Settings) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	w := io.Writer(os.Stdout)
	switch s.Env {
	case config.EnvDev:
		if s.LogLevel == "" {
			level = zerolog.DebugLevel
		}
	case config.EnvLocal:
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}
