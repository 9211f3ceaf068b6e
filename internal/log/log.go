// Package log provides structured logging for regdash.
// Entries are leveled and categorized. The TUI writes them to a file since
// the terminal belongs to Bubble Tea; `regdash serve` writes to stderr.
// Logging is enabled via the --debug flag or REGDASH_DEBUG env.
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

// ParseLevel maps a config string to a Level. Unknown values map to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatAuth    Category = "auth"    // Collaborator calls: user, register, logout
	CatAPI     Category = "api"     // Raw HTTP traffic to the auth API
	CatConfig  Category = "config"  // Configuration loading/saving
	CatWatcher Category = "watcher" // File watcher events
	CatUI      Category = "ui"      // UI component updates
	CatForm    Category = "form"    // Registration form validation and submit
	CatCache   Category = "cache"   // cache operations
	CatDB      Category = "db"      // Database operations
	CatServer  Category = "server"  // Stand-in auth API server
)

// redacted replaces the value of any field whose key names a credential.
const redacted = "[REDACTED]"

var sensitiveKeys = map[string]bool{
	"password":              true,
	"password_confirmation": true,
	"confirmpassword":       true,
	"secret":                true,
	"session_secret":        true,
	"token":                 true,
	"cookie":                true,
}

// Logger writes formatted entries to a single writer.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	minLevel Level
}

var defaultLogger *Logger

// InitWithTeaLog opens path through tea.LogToFile and makes it the global
// log destination. The returned cleanup closes the file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}

	defaultLogger = &Logger{
		writer:   f,
		enabled:  true,
		minLevel: LevelDebug,
	}

	return func() { _ = f.Close() }, nil
}

// InitWriter points the global logger at w. Intended for tests and for the
// server command, which logs to stderr.
func InitWriter(w io.Writer) {
	defaultLogger = &Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
	}
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
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	if defaultLogger == nil {
		return
	}

	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	if !defaultLogger.enabled || level < defaultLogger.minLevel || defaultLogger.writer == nil {
		return
	}

	_, _ = io.WriteString(defaultLogger.writer, format(time.Now(), level, cat, msg, fields))
}

// format renders one entry:
//
//	2025-12-06T10:45:00 [ERROR] [auth] message key=value key2="two words"
func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		if sensitiveKeys[strings.ToLower(key)] {
			b.WriteString(redacted)
			continue
		}
		b.WriteString(quote(fmt.Sprint(fields[i+1])))
	}
	// Odd field count: append orphan key with no value
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}

// quote wraps values containing whitespace or quotes so entries stay
// splittable on spaces.
func quote(v string) string {
	if v == "" {
		return `""`
	}
	if strings.ContainsAny(v, " \t\n\"=") {
		return fmt.Sprintf("%q", v)
	}
	return v
}
