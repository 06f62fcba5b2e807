// Package audit writes one structured JSON entry per agent-facing operation
// to a size-rotated file.
//
// The audit trail answers "what did the agent ask and what did it get back"
// during incident review. It is separate from the application log: entries
// are never filtered by level and the file is rotated with lumberjack.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents audit logger configuration. An empty Path disables
// auditing.
type Config struct {
	Path       string `yaml:"path,omitempty"`
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `yaml:"maxAgeDays,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// Entry is one audited operation.
type Entry struct {
	Operation  string
	ResourceID string
	LookupID   string
	Service    string
	Owner      string
	Status     string
	Source     string
	Duration   time.Duration
	Err        error
}

// Logger writes audit entries. The zero value is not usable; use New or Nop.
type Logger struct {
	z      *zap.Logger
	closer func() error
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zap.NewNop(), closer: func() error { return nil }}
}

// New returns a logger writing to cfg.Path, or a no-op logger when no path is
// configured.
func New(cfg Config) (*Logger, error) {
	if cfg.Path == "" {
		return Nop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return newWithSyncer(zapcore.AddSync(rotator), rotator.Close), nil
}

func newWithSyncer(ws zapcore.WriteSyncer, closer func() error) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), ws, zapcore.InfoLevel)
	return &Logger{z: zap.New(core).Named("audit"), closer: closer}
}

// Record writes e. Failed operations are written at error level.
func (l *Logger) Record(e Entry) {
	fields := []zap.Field{
		zap.String("operation", e.Operation),
		zap.Duration("duration", e.Duration),
	}
	if e.ResourceID != "" {
		fields = append(fields, zap.String("resource_id", e.ResourceID))
	}
	if e.LookupID != "" {
		fields = append(fields, zap.String("lookup_id", e.LookupID))
	}
	if e.Service != "" {
		fields = append(fields, zap.String("service", e.Service))
	}
	if e.Owner != "" {
		fields = append(fields, zap.String("owner", e.Owner))
	}
	if e.Status != "" {
		fields = append(fields, zap.String("status", e.Status))
	}
	if e.Source != "" {
		fields = append(fields, zap.String("source", e.Source))
	}

	if e.Err != nil {
		l.z.Error(e.Operation, append(fields, zap.Error(e.Err))...)
		return
	}
	l.z.Info(e.Operation, fields...)
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	_ = l.z.Sync()
	return l.closer()
}
