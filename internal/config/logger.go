package config

import (
	"github.com/sirupsen/logrus"
	"os"
)

var logg = newLogger("info")

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// InitLogger replaces the process logger using the configured level.
func InitLogger(level string) *logrus.Logger {
	logg = newLogger(level)
	return logg
}

func GetLogger() *logrus.Logger {
	return logg
}

// LogError writes err with the module/function it came from.
func LogError(logger *logrus.Logger, moduleName, funcName, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
