// Package logging provides structured logging for diskavl.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug is the most verbose level.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string into a Level. Unknown strings map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format represents the log output format.
type Format int

const (
	// FormatText outputs logs in human-readable text format.
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format.
	FormatJSON
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "json" {
		return FormatJSON
	}
	return FormatText
}

// Logger is the interface for structured logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
	// WithRequestID returns a new logger with the given request ID.
	WithRequestID(requestID string) Logger
	// WithFields returns a new logger with the given fields.
	WithFields(keysAndValues ...interface{}) Logger
}

// sink is the shared destination of a logger and all of its clones.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

// logger is the default implementation of Logger.
type logger struct {
	level     Level
	format    Format
	sink      *sink
	fields    map[string]interface{}
	requestID string
	now       func() time.Time
}

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
	Output string
}

// New creates a new Logger with the given configuration.
// An output that is neither "stdout" nor "stderr" is treated as a file path
// opened for append; if it cannot be opened the logger writes to stderr.
func New(cfg Config) Logger {
	return NewWithWriter(cfg, openOutput(cfg.Output))
}

// NewWithWriter creates a Logger writing to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) Logger {
	return &logger{
		level:  ParseLevel(cfg.Level),
		format: ParseFormat(cfg.Format),
		sink:   &sink{out: w},
		fields: make(map[string]interface{}),
		now:    time.Now,
	}
}

func openOutput(output string) io.Writer {
	switch output {
	case "stdout":
		return os.Stdout
	case "", "stderr":
		return os.Stderr
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stderr
	}
	return f
}

// NewDefault creates a new Logger with default settings: info level, text
// format, stderr.
func NewDefault() Logger {
	return NewWithWriter(Config{Level: "info", Format: "text"}, os.Stderr)
}

// NewNop creates a no-op logger that discards all output.
func NewNop() Logger {
	return nopLogger{}
}

// Debug logs a debug message.
func (l *logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues)
}

// Info logs an info message.
func (l *logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues)
}

// Warn logs a warning message.
func (l *logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues)
}

// Error logs an error message.
func (l *logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues)
}

// WithRequestID returns a new logger with the given request ID.
func (l *logger) WithRequestID(requestID string) Logger {
	c := l.clone()
	c.requestID = requestID
	return c
}

// WithFields returns a new logger with the given fields.
func (l *logger) WithFields(keysAndValues ...interface{}) Logger {
	c := l.clone()
	mergeFields(c.fields, keysAndValues)
	return c
}

func (l *logger) clone() *logger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &logger{
		level:     l.level,
		format:    l.format,
		sink:      l.sink,
		fields:    fields,
		requestID: l.requestID,
		now:       l.now,
	}
}

// mergeFields copies key-value pairs into dst. Non-string keys and a
// trailing key without a value are dropped.
func mergeFields(dst map[string]interface{}, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			dst[key] = fieldValue(keysAndValues[i+1])
		}
	}
}

// fieldValue renders errors as strings so they survive JSON encoding.
func fieldValue(v interface{}) interface{} {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

func (l *logger) log(level Level, msg string, keysAndValues []interface{}) {
	if level < l.level {
		return
	}

	entry := make(map[string]interface{}, len(l.fields)+len(keysAndValues)/2+4)
	for k, v := range l.fields {
		entry[k] = v
	}
	mergeFields(entry, keysAndValues)

	ts := l.now().UTC().Format(time.RFC3339)

	var line string
	if l.format == FormatJSON {
		entry["ts"] = ts
		entry["level"] = level.String()
		entry["msg"] = msg
		if l.requestID != "" {
			entry["request_id"] = l.requestID
		}
		data, err := json.Marshal(entry)
		if err != nil {
			line = fmt.Sprintf(`{"ts":%q,"level":"error","msg":"failed to marshal log entry"}`, ts)
		} else {
			line = string(data)
		}
	} else {
		line = l.formatText(ts, level, msg, entry)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	fmt.Fprintln(l.sink.out, line)
}

// formatText renders "ts [level] msg request_id=... k=v" with fields in
// key order.
func (l *logger) formatText(ts string, level Level, msg string, fields map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", ts, level, msg)

	if l.requestID != "" {
		fmt.Fprintf(&b, " request_id=%s", l.requestID)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// nopLogger is a no-op logger that discards all output.
type nopLogger struct{}

func (n nopLogger) Debug(_ string, _ ...interface{})   {}
func (n nopLogger) Info(_ string, _ ...interface{})    {}
func (n nopLogger) Warn(_ string, _ ...interface{})    {}
func (n nopLogger) Error(_ string, _ ...interface{})   {}
func (n nopLogger) WithRequestID(_ string) Logger      { return n }
func (n nopLogger) WithFields(_ ...interface{}) Logger { return n }
