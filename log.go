// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"github.com/zeroeval/zeroeval-go/logger"
)

// Valid log levels to be used with (Options).LogLevel
const (
	Error = 0
	Warn  = 1
	Info  = 2
	Debug = 3
)

// LeveledLogger is an interface of a generic logger that supports leveled logging.
// It's satisfied both by logrus.Logger and zap.SugaredLogger as well as by
// github.com/zeroeval/zeroeval-go/logger.Logger which is used by default.
type LeveledLogger interface {
	Debug(v ...interface{})
	Info(v ...interface{})
	Warn(v ...interface{})
	Error(v ...interface{})
}

var defaultLogger LeveledLogger = logger.New(nil)

// SetLogger changes the default logger used by the SDK. It also propagates
// the new logger to an already initialized collector.
func SetLogger(l LeveledLogger) {
	defaultLogger = l

	if sensor != nil {
		sensor.setLogger(l)
	}
}

// setLogLevel translates legacy (Options).LogLevel values into logger.Level
func setLogLevel(l *logger.Logger, level int) {
	switch level {
	case Error:
		l.SetLevel(logger.ErrorLevel)
	case Warn:
		l.SetLevel(logger.WarnLevel)
	case Info:
		l.SetLevel(logger.InfoLevel)
	case Debug:
		l.SetLevel(logger.DebugLevel)
	}
}
