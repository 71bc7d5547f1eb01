package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. JSON output so log collectors can parse
// it; level comes from LOG_LEVEL and defaults to info.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
