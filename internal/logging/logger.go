package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output targets and formats.
const (
	OutputStderr  = "stderr"
	OutputFile    = "file"
	FormatConsole = "console"
	FormatJSON    = "json"

	// Rotation defaults for file output.
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

// Config describes where and how logs are written.
type Config struct {
	Level  string `yaml:"level"  validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
	Output string `yaml:"output" validate:"omitempty,oneof=stderr file"`
	File   string `yaml:"file"   validate:"required_if=Output file"`
	Caller bool   `yaml:"caller"`
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("logging config validation error: %w", err)
	}
	return nil
}

// LogPathResult reports where a logger ended up writing.
type LogPathResult struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	closer io.Closer
}

// Close releases the rotating file handle, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// NewLogger builds a logger from cfg, writing to stderr when no file is configured.
func NewLogger(cfg Config) zerolog.Logger {
	return NewLoggerWithPath(cfg).Logger
}

// NewLoggerWithPath builds a logger and reports the resolved destination.
// If the log directory cannot be created the logger falls back to stderr and
// FallbackUsed is set; logging never prevents a command from running.
func NewLoggerWithPath(cfg Config) LogPathResult {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	result := LogPathResult{}
	var out io.Writer = os.Stderr

	if cfg.Output == OutputFile || cfg.File != "" {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.File), 0o750); mkErr != nil {
			result.FallbackUsed = true
			result.FallbackReason = mkErr.Error()
		} else {
			rotator := &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    defaultMaxSizeMB,
				MaxBackups: defaultMaxBackups,
				MaxAge:     defaultMaxAgeDays,
				Compress:   true,
			}
			out = rotator
			result.closer = rotator
			result.FilePath = cfg.File
			result.UsingFile = true
		}
	}

	if cfg.Format != FormatJSON && !result.UsingFile {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctxLogger := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Caller {
		ctxLogger = ctxLogger.Caller()
	}
	result.Logger = ctxLogger.Logger()

	return result
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// PrintLogPathMessage tells the user where the log file lives.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user that file logging was unavailable.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: file logging unavailable (%s), logging to stderr\n", reason)
}
