package pagepress

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger: a console writer by default, JSON when
// format is "json".
func NewLogger(format string, verbose bool) zerolog.Logger {
	var w io.Writer = zerolog.NewConsoleWriter()
	if format == "json" {
		w = os.Stdout
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}
