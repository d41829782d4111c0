// Package logger provides the leveled logger used across filekit.
//
// Library packages only depend on the Logger interface and default to Nop,
// so importing filekit never writes to stderr unless the caller asks for it.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger is the logging contract accepted by every filekit component.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debug(format string, args ...interface{}) {}
func (NoopLogger) Info(format string, args ...interface{})  {}
func (NoopLogger) Warn(format string, args ...interface{})  {}
func (NoopLogger) Error(format string, args ...interface{}) {}

// Nop is the shared no-op logger.
var Nop Logger = NoopLogger{}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop
	}
	return l
}

// LogLevel defines log severity levels
type LogLevel int

const (
	// Log levels from least to most restrictive
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// String returns the level name used in the line prefix.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "NONE"
	}
}

// ParseLevel converts a level name to a LogLevel. Unknown names map to LevelInfo.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off", "quiet":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Console writes timestamped, optionally colored lines to an io.Writer.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	useColors bool
	level     LogLevel
}

// New creates a Console logger writing to out at the given level.
func New(out io.Writer, level LogLevel, useColors bool) *Console {
	return &Console{
		out:       out,
		useColors: useColors,
		level:     level,
	}
}

// SetLevel changes the minimum level that is written.
func (c *Console) SetLevel(level LogLevel) {
	c.mu.Lock()
	c.level = level
	c.mu.Unlock()
}

// Level returns the current minimum level.
func (c *Console) Level() LogLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func (c *Console) Debug(format string, args ...interface{}) {
	c.write(LevelDebug, color.CyanString, format, args)
}

func (c *Console) Info(format string, args ...interface{}) {
	c.write(LevelInfo, color.BlueString, format, args)
}

func (c *Console) Warn(format string, args ...interface{}) {
	c.write(LevelWarn, color.YellowString, format, args)
}

func (c *Console) Error(format string, args ...interface{}) {
	c.write(LevelError, color.RedString, format, args)
}

func (c *Console) write(level LogLevel, paint func(string, ...interface{}) string, format string, args []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level < c.level {
		return
	}
	prefix := level.String()
	if c.useColors {
		prefix = paint(prefix)
	}
	fmt.Fprintf(c.out, "[%s %s] %s\n", timeString(), prefix, fmt.Sprintf(format, args...))
}

// timeString returns a formatted time string for the log prefix
func timeString() string {
	return time.Now().Format("15:04:05.000")
}
