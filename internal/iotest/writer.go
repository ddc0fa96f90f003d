// Package iotest provides IO helpers for tests.
package iotest

import (
	"io"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
	"go.uber.org/zap/zaptest"
)

// Writer builds an io.Writer that logs each line written to it
// to the given testing.TB.
// Partial lines are flushed when the test finishes.
func Writer(t testing.TB) io.Writer {
	w := &zapio.Writer{
		Log:   zaptest.NewLogger(t),
		Level: zapcore.InfoLevel,
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}
