package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "venue-settlement-engine"

// Settlement periods are UTC, so log timestamps are too.
func init() {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New returns the process logger writing to stdout. Pretty switches to the
// console format for local runs; production keeps one JSON object per line.
func New(level string, pretty bool) zerolog.Logger {
	if pretty {
		return build(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}, level).
			With().Caller().Logger()
	}
	return build(os.Stdout, level).With().Caller().Logger()
}

// NewWithWriter is New without caller info, writing JSON to w.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return build(w, level)
}

// Component tags a child logger with the engine part that owns it, such as
// "wallet_ledger" or "settlement".
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func build(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", serviceName).Logger()
}
