// Package event provides the shared logger used across packages.
package event

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the package-wide logger. Packages alias it as `var log = event.Log`.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})
}

// SetLevel sets the log level by name (trace, debug, info, warn, error).
// Unknown names fall back to info.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
