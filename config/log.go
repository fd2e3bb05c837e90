package config

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const CordialLogLevel = "CORDIAL_LOG_LEVEL"
const CordialLogFormat = "CORDIAL_LOG_FORMAT"

// ConfigureLogger sets the logrus level and formatter.  An explicit level takes priority
// over CORDIAL_LOG_LEVEL.  Logs go to stderr so command output on stdout stays parseable.
func ConfigureLogger(levelMaybe ...string) {
	time.Local = time.FixedZone("UTC", 0)
	logrus.SetOutput(os.Stderr)

	level := os.Getenv(CordialLogLevel)
	if len(levelMaybe) > 0 && levelMaybe[0] != "" {
		level = levelMaybe[0]
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	format := os.Getenv(CordialLogFormat)
	if format == "" {
		format = "color-text"
	}
	switch strings.ToLower(format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
		})
	case "color-text":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format":  format,
			"options": []string{"json", "text", "color-text"},
		}).Warn("unknown format")
	}
}
