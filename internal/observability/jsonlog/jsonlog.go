package jsonlog

import (
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"
)

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

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a Level.
// Unknown names fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes one JSON object per line.
type Logger struct {
	base *log.Logger
	min  Level
}

func New(w io.Writer) *Logger {
	return &Logger{base: log.New(w, "", 0)} // no prefix; we emit JSON ourselves
}

// NewWithLevel drops entries below min.
func NewWithLevel(w io.Writer, min Level) *Logger {
	l := New(w)
	l.min = min
	return l
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	l.emit(LevelDebug, msg, fields)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.emit(LevelInfo, msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.emit(LevelWarn, msg, fields)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	l.emit(LevelError, msg, fields)
}

func (l *Logger) emit(level Level, msg string, fields map[string]any) {
	if level < l.min {
		return
	}
	m := make(map[string]any, 3+len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		m[k] = v
	}
	m["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["level"] = level.String()
	m["msg"] = msg

	b, err := json.Marshal(m)
	if err != nil {
		l.base.Printf(`{"level":%q,"msg":%q,"log_error":%q}`, level.String(), msg, err.Error())
		return
	}
	l.base.Print(string(b))
}
