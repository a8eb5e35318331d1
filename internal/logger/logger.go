package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level.
// An unparseable level falls back to info and is reported once on the returned logger.
func New(level string, w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
	}
	log := zerolog.New(output).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		if err != nil {
			log.Warn().Str("level", level).Msg("invalid log level, defaulting to info")
		}
		lvl = zerolog.InfoLevel
	}
	return log.Level(lvl)
}
