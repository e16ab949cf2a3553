package internal

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger
func InitLogger(level, format string, output io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", level, err)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if output != nil {
		logrus.SetOutput(output)
	}
}
