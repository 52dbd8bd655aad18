// Package logging configures the process-wide structured logger every
// other package logs through, via github.com/sirupsen/logrus.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init parses level ("debug"/"info"/"warn"/"error") and format
// ("human"/"json") and returns a configured logger. An unrecognized level
// falls back to info, logged once as a warning rather than failing
// startup over a typo'd env var.
func Init(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "human":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(autoFormatter())
	}

	if err != nil {
		log.WithField("level", level).Warn("logging: unrecognized level, defaulting to info")
	}
	return log
}

// autoFormatter mirrors internal/ui.Output's TTY-detection duality: human
// text on an interactive terminal, JSON lines when piped or redirected.
func autoFormatter() logrus.Formatter {
	if fileInfo, err := os.Stderr.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return &logrus.TextFormatter{FullTimestamp: true}
	}
	return &logrus.JSONFormatter{}
}
