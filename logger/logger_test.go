// (c) Copyright ZeroEval Inc. 2026

package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeroeval/zeroeval-go/logger"
)

func TestLogger_SetLevel(t *testing.T) {
	examples := map[logger.Level][][]interface{}{
		logger.ErrorLevel: {
			{"zeroeval: ", "ERROR", ": ", "errorlevel"},
		},
		logger.WarnLevel: {
			{"zeroeval: ", "WARN", ": ", "warnlevel"},
			{"zeroeval: ", "ERROR", ": ", "errorlevel"},
		},
		logger.InfoLevel: {
			{"zeroeval: ", "INFO", ": ", "infolevel"},
			{"zeroeval: ", "WARN", ": ", "warnlevel"},
			{"zeroeval: ", "ERROR", ": ", "errorlevel"},
		},
		logger.DebugLevel: {
			{"zeroeval: ", "DEBUG", ": ", "debuglevel"},
			{"zeroeval: ", "INFO", ": ", "infolevel"},
			{"zeroeval: ", "WARN", ": ", "warnlevel"},
			{"zeroeval: ", "ERROR", ": ", "errorlevel"},
		},
	}

	for lvl, expected := range examples {
		t.Run(lvl.String(), func(t *testing.T) {
			p := &printer{}

			l := logger.New(p)
			l.SetLevel(lvl)

			l.Debug("debug", "level")
			l.Info("info", "level")
			l.Warn("warn", "level")
			l.Error("error", "level")

			assert.Equal(t, expected, p.Records)
		})
	}
}

func TestLogger_SetPrefix(t *testing.T) {
	p := &printer{}

	l := logger.New(p)
	l.SetPrefix("custom: ")
	l.Error("message")

	assert.Equal(t, [][]interface{}{
		{"custom: ", "ERROR", ": ", "message"},
	}, p.Records)
}

type printer struct {
	Records [][]interface{}
}

func (p *printer) Print(args ...interface{}) {
	p.Records = append(p.Records, args)
}
