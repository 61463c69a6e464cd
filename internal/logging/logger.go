// Package logging writes per-category debug logs for maskfield.
//
// Each category gets its own file, .maskfield/logs/<date>_<category>.log,
// backed by a zap core. Nothing is written unless Settings.DebugMode is set.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem; each has its own log file.
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, workspace resolution
	CategoryMask   Category = "mask"   // Template resolution and batch transduction
	CategoryField  Category = "field"  // Field input and change notification
	CategoryForm   Category = "form"   // Form validation and submission
	CategoryStore  Category = "store"  // Submission history
	CategoryConfig Category = "config" // Config load, save, hot reload
	CategoryUI     Category = "ui"     // Interactive terminal UI
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryBoot,
	CategoryMask,
	CategoryField,
	CategoryForm,
	CategoryStore,
	CategoryConfig,
	CategoryUI,
}

// Settings is the logging section of the workspace config.
type Settings struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // json or text
	DebugMode  bool            `yaml:"debug_mode"`           // false writes nothing
	Categories map[string]bool `yaml:"categories,omitempty"` // unlisted categories are on
}

// Logger writes one category. A disabled category gets a Logger backed by a
// no-op zap logger, so callers never check.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	stateMu  sync.RWMutex
	logsRoot string
	settings Settings

	// level is shared by every open core so ReloadConfig applies immediately.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	openMu sync.Mutex
	open   = make(map[Category]*Logger)

	nop = zap.NewNop().Sugar()
)

// Initialize points logging at a workspace with the loaded settings. Call
// once at startup.
func Initialize(workspace string, s Settings) error {
	if workspace == "" {
		return errors.New("logging: workspace path required")
	}

	stateMu.Lock()
	logsRoot = filepath.Join(workspace, ".maskfield", "logs")
	stateMu.Unlock()
	ReloadConfig(s)

	if !IsDebugMode() {
		return nil
	}
	if err := os.MkdirAll(logsDir(), 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	Boot("logging initialized in %s (level=%s)", workspace, level.Level())
	return nil
}

// ReloadConfig swaps in new settings. Level changes apply to open loggers;
// format changes apply to loggers opened afterwards.
func ReloadConfig(s Settings) {
	stateMu.Lock()
	settings = s
	stateMu.Unlock()
	level.SetLevel(parseLevel(s.Level))
}

func parseLevel(s string) zapcore.Level {
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func logsDir() string {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return logsRoot
}

// IsDebugMode reports whether any file logging is on.
func IsDebugMode() bool {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled reports whether category writes to its file. Categories
// not listed in the config are on whenever debug mode is.
func IsCategoryEnabled(category Category) bool {
	stateMu.RLock()
	defer stateMu.RUnlock()

	if !settings.DebugMode {
		return false
	}
	on, listed := settings.Categories[string(category)]
	return !listed || on
}

// Get returns the logger for category, opening its file on first use.
func Get(category Category) *Logger {
	dir := logsDir()
	if dir == "" || !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: nop}
	}

	openMu.Lock()
	defer openMu.Unlock()
	if l, ok := open[category]; ok {
		return l
	}

	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %s disabled: %v\n", category, err)
		return &Logger{category: category, sugar: nop}
	}

	core := zapcore.NewCore(newEncoder(), zapcore.AddSync(f), level)
	l := &Logger{
		category: category,
		file:     f,
		sugar:    zap.New(core).Named(string(category)).Sugar(),
	}
	open[category] = l
	return l
}

func newEncoder() zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "lvl",
		NameKey:        "cat",
		MessageKey:     "msg",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	stateMu.RLock()
	format := settings.Format
	stateMu.RUnlock()

	if format == "json" {
		ec.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = bracketLevel
	return zapcore.NewConsoleEncoder(ec)
}

// bracketLevel renders levels as [INFO], [WARN], ... in text logs.
func bracketLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// StructuredLog writes msg with fields as top-level keys, in key order.
func (l *Logger) StructuredLog(lvl string, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}

	switch parseLevel(lvl) {
	case zapcore.DebugLevel:
		l.sugar.Debugw(msg, kv...)
	case zapcore.InfoLevel:
		l.sugar.Infow(msg, kv...)
	case zapcore.WarnLevel:
		l.sugar.Warnw(msg, kv...)
	default:
		l.sugar.Errorw(msg, kv...)
	}
}

// CloseAll flushes and closes every open log file.
func CloseAll() {
	openMu.Lock()
	defer openMu.Unlock()

	for category, l := range open {
		_ = l.sugar.Sync()
		l.file.Close()
		delete(open, category)
	}
}

func Boot(format string, args ...interface{})       { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{})   { Get(CategoryBoot).Warn(format, args...) }
func Mask(format string, args ...interface{})       { Get(CategoryMask).Info(format, args...) }
func MaskDebug(format string, args ...interface{})  { Get(CategoryMask).Debug(format, args...) }
func Field(format string, args ...interface{})      { Get(CategoryField).Info(format, args...) }
func FieldDebug(format string, args ...interface{}) { Get(CategoryField).Debug(format, args...) }
func Form(format string, args ...interface{})       { Get(CategoryForm).Info(format, args...) }
func FormWarn(format string, args ...interface{})   { Get(CategoryForm).Warn(format, args...) }
func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }
func Config(format string, args ...interface{})     { Get(CategoryConfig).Info(format, args...) }
func ConfigWarn(format string, args ...interface{}) { Get(CategoryConfig).Warn(format, args...) }
func UI(format string, args ...interface{})         { Get(CategoryUI).Info(format, args...) }
func UIDebug(format string, args ...interface{})    { Get(CategoryUI).Debug(format, args...) }

// Timer measures one operation and logs its duration to a category.
type Timer struct {
	category Category
	name     string
	began    time.Time
}

// StartTimer starts timing operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, name: operation, began: time.Now()}
}

// Stop logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	return t.StopWithThreshold(0)
}

// StopWithThreshold logs a warning when the operation ran longer than limit.
// A zero limit never warns.
func (t *Timer) StopWithThreshold(limit time.Duration) time.Duration {
	d := time.Since(t.began)
	if limit > 0 && d > limit {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.name, d, limit)
	} else {
		Get(t.category).Debug("%s completed in %v", t.name, d)
	}
	return d
}
