// Package logging provides config-driven categorized file-based logging for humanizer.
// Logs are written to a logs directory with one file per category per day.
// Logging is controlled by the logging.debug_mode setting: when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryPipeline Category = "pipeline" // Mangling stages
	CategoryPersona  Category = "persona"  // Persona selection and history resets
	CategoryRewrite  Category = "rewrite"  // External rewrite calls
	CategoryIngest   Category = "ingest"   // Passage loading
	CategoryJournal  Category = "journal"  // Run journal
	CategoryWatch    Category = "watch"    // File watch mode
)

// AllCategories lists every known category.
var AllCategories = []Category{
	CategoryBoot,
	CategoryPipeline,
	CategoryPersona,
	CategoryRewrite,
	CategoryIngest,
	CategoryJournal,
	CategoryWatch,
}

// Options mirrors the logging section of the config file.
type Options struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool
}

// StructuredLogEntry is one JSON log line.
type StructuredLogEntry struct {
	Timestamp int64          `json:"ts"`
	Category  string         `json:"cat"`
	Level     string         `json:"lvl"`
	Message   string         `json:"msg"`
	RequestID string         `json:"req,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	config    Options
	configMu  sync.RWMutex
	logLevel  = LevelInfo
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory. Call once at startup.
// With debug mode off this is a silent no-op and every logger discards output.
func Initialize(dir string, opts Options) error {
	if dir == "" {
		return fmt.Errorf("logs directory required")
	}

	configMu.Lock()
	config = opts
	logLevel = parseLevel(opts.Level)
	logsDir = dir
	configMu.Unlock()

	if !opts.DebugMode {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== humanizer logging initialized ===")
	boot.Info("Logs directory: %s", dir)
	boot.Info("Log level: %s", opts.Level)
	if len(opts.Categories) > 0 {
		enabled := 0
		for cat, on := range opts.Categories {
			if on {
				enabled++
			}
			boot.Debug("Category '%s': %v", cat, on)
		}
		boot.Info("Enabled categories: %d/%d", enabled, len(opts.Categories))
	} else {
		boot.Info("All categories enabled (no category filter)")
	}
	return nil
}

func parseLevel(level string) int {
	switch level {
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

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	configMu.RLock()
	dir := logsDir
	configMu.RUnlock()
	if dir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func isJSON() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.JSONFormat
}

func currentLevel() int {
	configMu.RLock()
	defer configMu.RUnlock()
	return logLevel
}

func (l *Logger) write(level int, name, reqID, msg string, fields map[string]any) {
	if l.logger == nil || (level < LevelError && currentLevel() > level) {
		return
	}
	if isJSON() {
		data, err := json.Marshal(StructuredLogEntry{
			Timestamp: time.Now().UnixMilli(),
			Category:  string(l.category),
			Level:     name,
			Message:   msg,
			RequestID: reqID,
			Fields:    fields,
		})
		if err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	if reqID != "" {
		msg = fmt.Sprintf("[req:%s] %s", reqID, msg)
	}
	if len(fields) > 0 {
		msg = fmt.Sprintf("%s | %v", msg, fields)
	}
	l.logger.Printf("[%s] %s", levelTag(name), msg)
}

func levelTag(name string) string {
	switch name {
	case "debug":
		return "DEBUG"
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

// Debug logs a debug message (only if level <= debug)
func (l *Logger) Debug(format string, args ...any) {
	l.write(LevelDebug, "debug", "", fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message (only if level <= info)
func (l *Logger) Info(format string, args ...any) {
	l.write(LevelInfo, "info", "", fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message (only if level <= warn)
func (l *Logger) Warn(format string, args ...any) {
	l.write(LevelWarn, "warn", "", fmt.Sprintf(format, args...), nil)
}

// Error logs an error message (always logged if logger exists)
func (l *Logger) Error(format string, args ...any) {
	l.write(LevelError, "error", "", fmt.Sprintf(format, args...), nil)
}

// CloseAll closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...any) { Get(CategoryBoot).Info(format, args...) }

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...any) { Get(CategoryBoot).Debug(format, args...) }

// Pipeline logs to the pipeline category
func Pipeline(format string, args ...any) { Get(CategoryPipeline).Info(format, args...) }

// PipelineDebug logs debug to the pipeline category
func PipelineDebug(format string, args ...any) { Get(CategoryPipeline).Debug(format, args...) }

// Persona logs to the persona category
func Persona(format string, args ...any) { Get(CategoryPersona).Info(format, args...) }

// PersonaDebug logs debug to the persona category
func PersonaDebug(format string, args ...any) { Get(CategoryPersona).Debug(format, args...) }

// Rewrite logs to the rewrite category
func Rewrite(format string, args ...any) { Get(CategoryRewrite).Info(format, args...) }

// RewriteDebug logs debug to the rewrite category
func RewriteDebug(format string, args ...any) { Get(CategoryRewrite).Debug(format, args...) }

// RewriteError logs error to the rewrite category
func RewriteError(format string, args ...any) { Get(CategoryRewrite).Error(format, args...) }

// Ingest logs to the ingest category
func Ingest(format string, args ...any) { Get(CategoryIngest).Info(format, args...) }

// IngestDebug logs debug to the ingest category
func IngestDebug(format string, args ...any) { Get(CategoryIngest).Debug(format, args...) }

// IngestWarn logs warning to the ingest category
func IngestWarn(format string, args ...any) { Get(CategoryIngest).Warn(format, args...) }

// Journal logs to the journal category
func Journal(format string, args ...any) { Get(CategoryJournal).Info(format, args...) }

// JournalError logs error to the journal category
func JournalError(format string, args ...any) { Get(CategoryJournal).Error(format, args...) }

// Watch logs to the watch category
func Watch(format string, args ...any) { Get(CategoryWatch).Info(format, args...) }

// WatchDebug logs debug to the watch category
func WatchDebug(format string, args ...any) { Get(CategoryWatch).Debug(format, args...) }

// WatchError logs error to the watch category
func WatchError(format string, args ...any) { Get(CategoryWatch).Error(format, args...) }

// =============================================================================
// REQUEST ID TRACING
// =============================================================================

// RequestLogger provides request-scoped logging with a correlation ID
type RequestLogger struct {
	logger    *Logger
	requestID string
	fields    map[string]any
}

// WithRequestID creates a request-scoped logger
func WithRequestID(category Category, requestID string) *RequestLogger {
	return &RequestLogger{
		logger:    Get(category),
		requestID: requestID,
		fields:    make(map[string]any),
	}
}

// WithField adds a field to the request logger
func (r *RequestLogger) WithField(key string, value any) *RequestLogger {
	r.fields[key] = value
	return r
}

func (r *RequestLogger) Debug(format string, args ...any) {
	r.logger.write(LevelDebug, "debug", r.requestID, fmt.Sprintf(format, args...), r.fields)
}

func (r *RequestLogger) Info(format string, args ...any) {
	r.logger.write(LevelInfo, "info", r.requestID, fmt.Sprintf(format, args...), r.fields)
}

func (r *RequestLogger) Warn(format string, args ...any) {
	r.logger.write(LevelWarn, "warn", r.requestID, fmt.Sprintf(format, args...), r.fields)
}

func (r *RequestLogger) Error(format string, args ...any) {
	r.logger.write(LevelError, "error", r.requestID, fmt.Sprintf(format, args...), r.fields)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
