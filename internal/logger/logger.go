package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. Output is JSON on stdout so log
// shippers can ingest it without a parsing config.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
