package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"imagerater/internal/config"

	"github.com/rs/zerolog"
)

// Log files kept in the log directory, one per level.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (debug/info/warning/error) to files and
// stdout/stderr. Sub-loggers created with With share the same files.
type Logger struct {
	zl    zerolog.Logger
	sinks *sinks
}

type sinks struct {
	logDir string
	files  map[string]*os.File
	mu     sync.Mutex
}

// levelFile forwards only entries of exactly one level to its file.
type levelFile struct {
	level zerolog.Level
	out   io.Writer
}

func (w levelFile) Write(p []byte) (int, error) {
	return len(p), nil
}

func (w levelFile) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level != w.level {
		return len(p), nil
	}
	return w.out.Write(p)
}

// NewLogger creates a Logger writing to the console and to per-level files
// in the configured log directory.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	s := &sinks{logDir: cfg.LogDirectory, files: make(map[string]*os.File)}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}
	for name, level := range map[string]zerolog.Level{
		InfoFile:    zerolog.InfoLevel,
		WarningFile: zerolog.WarnLevel,
		ErrorFile:   zerolog.ErrorLevel,
	} {
		f, err := s.open(name)
		if err != nil {
			s.close()
			return nil, err
		}
		writers = append(writers, levelFile{level: level, out: f})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.LogLevel)).
		With().Timestamp().Logger()

	return &Logger{zl: zl, sinks: s}, nil
}

// NewConsole creates a Logger that writes only to stderr.
func NewConsole(level string) *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(parseLevel(level)).
		With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

func (s *sinks) open(name string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(s.logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
	}
	s.files[name] = f
	return f, nil
}

func (s *sinks) close() {
	for _, f := range s.files {
		f.Close()
	}
}

// With returns a sub-logger tagged with the given component name.
func (l *Logger) With(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger(), sinks: l.sinks}
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Debug writes a formatted debug-level log entry.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Dir returns the log directory, or "" for console-only loggers.
func (l *Logger) Dir() string {
	if l.sinks == nil {
		return ""
	}
	return l.sinks.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.sinks == nil {
		return nil
	}
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	f, ok := l.sinks.files[fileName]
	if !ok {
		return fmt.Errorf("unknown log file %s", fileName)
	}
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", fileName, err)
	}

	l.Info("Log file %s has been cleared", fileName)
	return nil
}

// Close closes the log files.
func (l *Logger) Close() {
	if l.sinks == nil {
		return
	}
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()
	l.sinks.close()
}
