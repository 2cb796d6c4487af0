package logging

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// DefaultLogger writes leveled lines through the standard log package.
// Debug and Info go to the info writer, Warn and Error to the error writer.
// It is safe for concurrent use.
type DefaultLogger struct {
	out    *log.Logger
	errOut *log.Logger
	level  *atomic.Int32
	fields Fields
}

// NewDefaultLogger logs to stdout/stderr at InfoLevel.
func NewDefaultLogger() *DefaultLogger {
	return NewWriterLogger(os.Stdout, os.Stderr)
}

// NewWriterLogger logs Debug/Info to out and Warn/Error to errOut at
// InfoLevel. Timestamps are written only when logging to the standard
// streams.
func NewWriterLogger(out, errOut io.Writer) *DefaultLogger {
	flags := 0
	if out == os.Stdout || errOut == os.Stderr {
		flags = log.LstdFlags
	}

	level := new(atomic.Int32)
	level.Store(int32(InfoLevel))

	return &DefaultLogger{
		out:    log.New(out, "", flags),
		errOut: log.New(errOut, "", flags),
		level:  level,
		fields: Fields{},
	}
}

func (d *DefaultLogger) format(level Level, err error, msg string, fields ...Fields) string {
	all := make(Fields, len(d.fields))
	maps.Copy(all, d.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}

	for _, k := range slices.Sorted(maps.Keys(all)) {
		fmt.Fprintf(&b, " %s=%v", k, all[k])
	}

	return b.String()
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < Level(d.level.Load()) {
		return
	}

	line := d.format(level, err, msg, fields...)
	if level >= WarnLevel {
		d.errOut.Println(line)
		return
	}
	d.out.Println(line)
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) { d.log(DebugLevel, nil, msg, fields...) }

func (d *DefaultLogger) Info(msg string, fields ...Fields) { d.log(InfoLevel, nil, msg, fields...) }

func (d *DefaultLogger) Warn(msg string, fields ...Fields) { d.log(WarnLevel, nil, msg, fields...) }

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

// WithFields returns a logger that adds fields to every event. The level is
// shared with the parent.
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(d.fields)+len(fields))
	maps.Copy(merged, d.fields)
	maps.Copy(merged, fields)

	return &DefaultLogger{
		out:    d.out,
		errOut: d.errOut,
		level:  d.level,
		fields: merged,
	}
}

func (d *DefaultLogger) SetLevel(level Level) { d.level.Store(int32(level)) }

// NoOpLogger discards every event.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(string, ...Fields)        {}
func (n *NoOpLogger) Info(string, ...Fields)         {}
func (n *NoOpLogger) Warn(string, ...Fields)         {}
func (n *NoOpLogger) Error(error, string, ...Fields) {}
func (n *NoOpLogger) WithFields(Fields) Logger       { return n }
func (n *NoOpLogger) SetLevel(Level)                 {}
