package logger

import (
	"io"
	"os"
	"strings"

	stdlog "log"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init configures the global logger. Called once at startup. With pretty
// enabled output is human-readable console text, otherwise one JSON line
// per event. Unknown levels fall back to info.
func Init(level string, pretty bool) {
	lvl := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
		lvl = l
	}
	zerolog.SetGlobalLevel(lvl)

	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	zlog.Logger = zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "harscope").
		Logger()

	// Route the stdlib logger through zerolog so third-party code using
	// log.Println ends up in the same stream.
	stdlog.SetFlags(0)
	stdlog.SetOutput(zlog.Logger)
}
