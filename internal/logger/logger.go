// Package logger is the process-wide structured logger. Entries derived from
// a context carry its trace and cycle ids.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const jsonTimestamp = "2006-01-02T15:04:05.000Z07:00"

type ctxKey int

const (
	traceKey ctxKey = iota
	cycleKey
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(jsonFormatter())
	return l
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{TimestampFormat: jsonTimestamp}
}

// Setup applies the configured level and picks a human-readable formatter in
// development mode. An unknown level falls back to info.
func Setup(level, mode string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if mode == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
		return
	}
	log.SetFormatter(jsonFormatter())
}

func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetJSON switches to JSON output whatever the mode.
func SetJSON() {
	log.SetFormatter(jsonFormatter())
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey, traceID)
}

func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return context.WithValue(ctx, cycleKey, cycleID)
}

func TraceIDFromContext(ctx context.Context) string {
	return stringValue(ctx, traceKey)
}

func CycleIDFromContext(ctx context.Context) string {
	return stringValue(ctx, cycleKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// FromContext returns an entry tagged with whichever ids ctx carries.
func FromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if id := TraceIDFromContext(ctx); id != "" {
		fields["trace_id"] = id
	}
	if id := CycleIDFromContext(ctx); id != "" {
		fields["cycle_id"] = id
	}
	return log.WithFields(fields)
}

func WithFields(fields map[string]interface{}) *logrus.Entry {
	return log.WithFields(fields)
}

func WithDeployment(deployment string) *logrus.Entry {
	return log.WithField("deployment", deployment)
}

func Debug(msg string) { log.Debug(msg) }
func Info(msg string)  { log.Info(msg) }
func Warn(msg string)  { log.Warn(msg) }

func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

func InfoCtxf(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Infof(format, args...)
}

func ErrorCtxf(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Errorf(format, args...)
}
