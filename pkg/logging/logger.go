// pkg/logging/logger.go

// Package logging provides structured JSON logging for pegshot. Every game gets
// a correlation ID so the lines of one round can be told apart after restarts.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnvVar selects the minimum level: DEBUG, INFO, WARN or ERROR. Defaults to INFO.
const LevelEnvVar = "PEGSHOT_LOG_LEVEL"

// Attribute keys shared by every entry
const (
	CorrelationIDKey = "correlation_id"
	ComponentKey     = "component"
	ErrorKey         = "error"
)

const redacted = "[REDACTED]"

// secretKeyParts mark attribute keys whose values never reach a log. Settings
// can come from a .env file that also holds unrelated credentials.
var secretKeyParts = []string{
	"password", "passwd", "pwd",
	"token", "auth",
	"secret", "private", "credential",
}

// Logger is a slog.Logger whose level methods take a context, so entries
// carry the correlation ID of the game they belong to.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger writing entries at level or above to w.
func New(w io.Writer, level slog.Leveler) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSecrets,
	})
	return &Logger{slog.New(handler)}
}

// NewLogger writes to stdout at the level named by LevelEnvVar.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter writes to w at the level named by LevelEnvVar. The
// terminal front end owns stdout, so it logs to a file through this.
func NewLoggerWithWriter(w io.Writer) *Logger {
	return New(w, LevelFromEnv())
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return New(io.Discard, slog.LevelError+1)
}

// With returns a logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// Component tags every entry with the subsystem that wrote it.
func (l *Logger) Component(name string) *Logger {
	return l.With(ComponentKey, name)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.Enabled(ctx, level) {
		return
	}
	if id := GetCorrelationID(ctx); id != "" {
		args = append(args, CorrelationIDKey, id)
	}
	l.Log(ctx, level, msg, args...)
}

// Debug logs per-tick detail such as renderer calls.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

// Info logs game lifecycle entries.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs recoverable trouble, like a partial layout or missing audio.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg with err under the "error" key. A nil err is omitted.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, ErrorKey, err.Error())
	}
	l.log(ctx, slog.LevelError, msg, args...)
}

type correlationIDKey struct{}

// WithCorrelationID returns ctx carrying id, or a fresh ID when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = GenerateCorrelationID()
	}
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID returns the ID stored in ctx, or "".
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// GenerateCorrelationID returns 16 random hex characters.
func GenerateCorrelationID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// ParseLevel maps DEBUG, INFO, WARN (or WARNING) and ERROR, in any case, to
// a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelFromEnv reads LevelEnvVar, falling back to INFO when it is unset or
// unknown.
func LevelFromEnv() slog.Level {
	level, err := ParseLevel(os.Getenv(LevelEnvVar))
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, part := range secretKeyParts {
		if strings.Contains(key, part) {
			return slog.String(a.Key, redacted)
		}
	}
	return a
}

// WrapError prefixes err with a formatted context, keeping it matchable by
// errors.Is. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return fmt.Errorf("%s: %w", format, err)
}
