// Package log configures the logrus entry shared across the CLI.
package log

import (
	"github.com/sirupsen/logrus"
)

// New creates a logrus entry carrying the program name and version.
func New(version string) *logrus.Entry {
	return logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{
		"program": "sastctl",
		"version": version,
	})
}

// SetLevel parses and applies a log level. An empty level keeps the default.
// An invalid level is reported but doesn't abort the command.
func SetLevel(level string, logE *logrus.Entry) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logE.WithField("log_level", level).WithError(err).Error("the log level is invalid")
		return
	}
	logE.Logger.SetLevel(lvl)
}
