// Package log provides structured logging for opener.
// It writes category-tagged key=value lines to a debug log file and stays
// silent until InitWithTeaLog or InitWithWriter is called (--debug flag or
// OPENER_DEBUG env).
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
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
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatCommand  Category = "command"  // Command registry mutations
	CatAssoc    Category = "assoc"    // Association registration and resolution
	CatStore    Category = "store"    // Loading and saving the command/association files
	CatFilter   Category = "filter"   // File filter construction and name masks
	CatConfig   Category = "config"   // Configuration loading/saving
	CatWatcher  Category = "watcher"  // File watcher events
	CatPlatform Category = "platform" // Platform bootstrap
	CatCache    Category = "cache"    // cache operations
)

const timestampLayout = "2006-01-02T15:04:05"

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	minLevel Level
	now      func() time.Time
}

var defaultLogger *Logger

func newLogger(w io.Writer) *Logger {
	return &Logger{writer: w, enabled: true, minLevel: LevelDebug, now: time.Now}
}

// InitWithTeaLog opens path through tea.LogToFile and routes all output
// there. The returned func closes the file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("opening debug log %s: %w", path, err)
	}
	defaultLogger = newLogger(f)
	return func() { _ = f.Close() }, nil
}

// InitWithWriter routes log output to w.
func InitWithWriter(w io.Writer) {
	defaultLogger = newLogger(w)
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	errText := "<nil>"
	if err != nil {
		errText = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", errText))
}

// Timed logs msg at debug level when the returned func is called, with the
// elapsed time appended as a "took" field.
//
//	defer log.Timed(log.CatStore, "saved associations", "path", path)()
func Timed(cat Category, msg string, fields ...any) func() {
	if defaultLogger == nil {
		return func() {}
	}
	start := defaultLogger.now()
	return func() {
		took := defaultLogger.now().Sub(start).Round(time.Microsecond)
		write(LevelDebug, cat, msg, append(fields, "took", took))
	}
}

func write(level Level, cat Category, msg string, fields []any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel || l.writer == nil {
		return
	}
	_, _ = io.WriteString(l.writer, format(l.now(), level, cat, msg, fields))
}

// format renders one line:
//
//	2025-12-06T10:45:00 [DEBUG] [store] message key=value key2=value2
func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format(timestampLayout), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}
