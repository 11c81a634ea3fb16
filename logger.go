package masstransit

import (
	"github.com/sirupsen/logrus"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
}

var _ Logger = (*logrus.Logger)(nil)

// DefaultLogger 默认 logger
func DefaultLogger() Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}
