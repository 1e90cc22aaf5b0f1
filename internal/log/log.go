// Package log provides category-tagged structured logging for wavtouch.
//
// The terminal belongs to the kiosk UI, so log output goes to a file (or
// is discarded). Every call carries a Category so a single log file can be
// filtered by subsystem.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Category identifies the subsystem a log line belongs to.
type Category string

const (
	CatConfig  Category = "config"
	CatCatalog Category = "catalog"
	CatAudio   Category = "audio"
	CatDecode  Category = "decode"
	CatUI      Category = "ui"
	CatTrace   Category = "trace"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// ParseLevel converts a level name ("trace", "debug", "info", "warn", "error") to a
// zerolog level. Unknown names fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init opens path for appending and routes all logging there.
// An empty path keeps logging disabled. The returned function closes the file.
func Init(path string, level zerolog.Level) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	SetOutput(f, level)
	Info(CatConfig, "Logger initialized", "path", path, "level", level.String())
	return f.Close, nil
}

// SetOutput routes logging to w at the given level. Each call starts a new run id.
func SetOutput(w io.Writer, level zerolog.Level) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
	logger.Store(&l)
}

// Disable discards all further log output.
func Disable() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// Debug logs at debug level with alternating key/value pairs.
func Debug(cat Category, msg string, kv ...any) {
	emit(logger.Load().Debug(), cat, msg, kv)
}

// Info logs at info level.
func Info(cat Category, msg string, kv ...any) {
	emit(logger.Load().Info(), cat, msg, kv)
}

// Warn logs at warn level.
func Warn(cat Category, msg string, kv ...any) {
	emit(logger.Load().Warn(), cat, msg, kv)
}

// Error logs at error level.
func Error(cat Category, msg string, kv ...any) {
	emit(logger.Load().Error(), cat, msg, kv)
}

// ErrorErr logs at error level and attaches err under the "error" key.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	emit(logger.Load().Error().Err(err), cat, msg, kv)
}

func emit(e *zerolog.Event, cat Category, msg string, kv []any) {
	if e == nil {
		return
	}
	e = e.Str("cat", string(cat))
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if i+1 >= len(kv) {
			e = e.Interface("!BADKEY", kv[i])
			break
		}
		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		case int:
			e = e.Int(key, v)
		case bool:
			e = e.Bool(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
