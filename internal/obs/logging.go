// Package obs sets up logging.
package obs

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at level, falling back to info for an
// unknown level name.
func NewLogger(level string, out io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}
