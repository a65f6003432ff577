package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the syllabus service and the editor engine.
// - zero external deps
// - Init(level) is driven by the LOG_LEVEL env var at startup
// - editor components log missing-field conditions at Warn and keep going

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu  sync.RWMutex
	out *log.Logger = log.New(os.Stdout, "", 0)
	lvl Level       = LevelInfo
)

// Init sets the global level. Accepted (case-insensitive): debug, info, warn,
// warning, error, fatal. Anything else falls back to info.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	lvl = parseLevel(level)
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// SetOutput redirects log output (used by tests to capture warnings).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", 0)
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= lvl
}

func emit(tag, format string, v ...interface{}) {
	mu.RLock()
	l := out
	mu.RUnlock()
	l.Printf(time.Now().Format(time.RFC3339)+" ["+tag+"] "+format, v...)
}

func Debugf(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		emit("DEBUG", format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		emit("INFO", format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		emit("WARN", format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if enabled(LevelError) {
		emit("ERROR", format, v...)
	}
}

func Fatalf(format string, v ...interface{}) {
	emit("FATAL", format, v...)
	os.Exit(1)
}

// Single-string helpers.
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch lvl {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
