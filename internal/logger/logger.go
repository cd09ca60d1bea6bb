package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LevelTrace sits below debug and is enabled with the third -V.
const LevelTrace = slog.LevelDebug - 1

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	verboseCount  int
	output        io.Writer = os.Stderr
)

func init() {
	defaultLogger = newLogger(output, slog.LevelError)
	slog.SetDefault(defaultLogger)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func levelFor(count int) slog.Level {
	switch {
	case count <= 0:
		return slog.LevelError
	case count == 1:
		return slog.LevelInfo
	case count == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// SetVerbosity maps a -V count to a level: 0 errors only, 1 info, 2 debug, 3+ trace.
func SetVerbosity(count int) {
	mu.Lock()
	defer mu.Unlock()

	verboseCount = count
	defaultLogger = newLogger(output, levelFor(count))
	slog.SetDefault(defaultLogger)
}

func GetVerbosity() int {
	mu.RLock()
	defer mu.RUnlock()
	return verboseCount
}

// SetOutput redirects log output, keeping the current verbosity.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	defaultLogger = newLogger(output, levelFor(verboseCount))
	slog.SetDefault(defaultLogger)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func Trace(msg string, args ...any) {
	current().Log(context.Background(), LevelTrace, msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
