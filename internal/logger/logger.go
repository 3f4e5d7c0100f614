// Package logger provides leveled console logging for collector commands.
//
// Output lines look like "[HH:MM:SS] [LEVEL] message". The level tag is
// colored when writing to a terminal. A nil *Logger discards everything.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is a log severity.
type Level int

// Log levels, most verbose first.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var levelColors = map[Level]*color.Color{
	LevelTrace: color.New(color.FgHiBlack),
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgBlue),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
}

// ParseLevel converts a level name to a Level. Empty or unknown names
// default to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// Logger writes leveled messages to a writer. Safe for concurrent use.
type Logger struct {
	writer      io.Writer
	level       Level
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// New creates a Logger writing messages at or above level to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		writer:      w,
		level:       level,
		colorOutput: isTerminal(w),
		now:         time.Now,
	}
}

// isTerminal checks if the writer is stdout or stderr with color enabled.
// fatih/color sets NoColor when the stream is not a TTY or NO_COLOR is set.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.writer != nil && level >= l.level
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, args ...any) { l.logf(LevelTrace, format, args...) }

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	tag := level.String()
	if l.colorOutput {
		tag = levelColors[level].Sprint(tag)
	}

	ts := l.now().Format("15:04:05")
	fmt.Fprintf(l.writer, "[%s] [%s] %s\n", ts, tag, fmt.Sprintf(format, args...))
}
