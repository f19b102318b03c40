package container

import (
	"os"

	"dogceo/browser/internal/config"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the standard logrus logger. Logs go to stderr so
// command output on stdout stays clean.
func SetupLogging(cfg config.LoggingConfig) {
	log.SetOutput(os.Stderr)

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
