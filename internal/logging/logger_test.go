package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

// resetState clears package globals between tests
func resetState(t *testing.T) {
	t.Helper()
	reset := func() {
		CloseAll()
		stateMu.Lock()
		logsRoot, settings = "", Settings{}
		stateMu.Unlock()
		level.SetLevel(zapcore.InfoLevel)
	}
	reset()
	t.Cleanup(reset)
}

func readLog(t *testing.T, ws string, cat Category) string {
	t.Helper()
	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(ws, ".maskfield", "logs", date+"_"+string(cat)+".log"))
	if err != nil {
		return ""
	}
	return string(data)
}

func TestAllCategoriesLog(t *testing.T) {
	resetState(t)
	ws := t.TempDir()

	if err := Initialize(ws, Settings{Level: "debug", DebugMode: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("Expected debug mode to be enabled")
	}

	for _, cat := range AllCategories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("info for %s", cat)
		logger.Debug("debug for %s", cat)
		logger.Warn("warn for %s", cat)
		logger.Error("error for %s", cat)
	}
	CloseAll()

	for _, cat := range AllCategories {
		content := readLog(t, ws, cat)
		for _, tag := range []string{"[INFO]", "[DEBUG]", "[WARN]", "[ERROR]"} {
			if !strings.Contains(content, tag) {
				t.Errorf("Log for %s missing %s entry:\n%s", cat, tag, content)
			}
		}
	}
}

func TestDebugModeDisabled(t *testing.T) {
	resetState(t)
	ws := t.TempDir()

	if err := Initialize(ws, Settings{Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Mask("should not be written")

	if _, err := os.Stat(filepath.Join(ws, ".maskfield", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not exist when debug mode is off")
	}
}

func TestUninitializedIsNoop(t *testing.T) {
	resetState(t)
	ReloadConfig(Settings{DebugMode: true})

	// No workspace yet, so nothing has a file to write to.
	if Get(CategoryForm).file != nil {
		t.Error("Expected a no-op logger before Initialize")
	}
	Form("dropped")
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	resetState(t)
	if err := Initialize("", Settings{}); err == nil {
		t.Error("Expected error for empty workspace")
	}
}

func TestCategoryToggle(t *testing.T) {
	resetState(t)
	ws := t.TempDir()

	err := Initialize(ws, Settings{
		Level:      "info",
		DebugMode:  true,
		Categories: map[string]bool{"mask": true, "store": false},
	})
	if err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsCategoryEnabled(CategoryMask) {
		t.Error("mask should be enabled")
	}
	if IsCategoryEnabled(CategoryStore) {
		t.Error("store should be disabled")
	}
	if !IsCategoryEnabled(CategoryUI) {
		t.Error("unlisted categories default to enabled")
	}

	Mask("mask entry")
	MaskDebug("below level")
	Store("store entry")
	CloseAll()

	content := readLog(t, ws, CategoryMask)
	if !strings.Contains(content, "mask entry") {
		t.Errorf("expected mask entry, got %q", content)
	}
	if strings.Contains(content, "below level") {
		t.Error("debug entry should be filtered at info level")
	}
	if readLog(t, ws, CategoryStore) != "" {
		t.Error("store log should not be written")
	}
}

func TestJSONFormat(t *testing.T) {
	resetState(t)
	ws := t.TempDir()

	if err := Initialize(ws, Settings{DebugMode: true, Format: "json"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Get(CategoryForm).StructuredLog("info", "submitted", map[string]interface{}{"form": "contact"})
	CloseAll()

	content := readLog(t, ws, CategoryForm)
	if !strings.Contains(content, `"cat":"form"`) || !strings.Contains(content, `"form":"contact"`) || !strings.Contains(content, `"lvl":"info"`) {
		t.Errorf("expected JSON entry, got %q", content)
	}
}

func TestTimerLogging(t *testing.T) {
	resetState(t)
	ws := t.TempDir()
	if err := Initialize(ws, Settings{Level: "debug", DebugMode: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	timer := StartTimer(CategoryMask, "batch")
	time.Sleep(5 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Millisecond)
	if elapsed < 5*time.Millisecond {
		t.Errorf("Expected elapsed >= 5ms, got %v", elapsed)
	}
	CloseAll()

	if !strings.Contains(readLog(t, ws, CategoryMask), "batch took") {
		t.Error("Expected threshold warning in mask log")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestReloadConfigChangesLevel(t *testing.T) {
	resetState(t)
	ws := t.TempDir()
	if err := Initialize(ws, Settings{Level: "warn", DebugMode: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Form("dropped at warn")

	ReloadConfig(Settings{Level: "debug", DebugMode: true})
	Form("kept at debug")

	ReloadConfig(Settings{Level: "debug"})
	Form("dropped when debug mode is off")
	CloseAll()

	content := readLog(t, ws, CategoryForm)
	if strings.Contains(content, "dropped") || !strings.Contains(content, "kept at debug") {
		t.Errorf("Expected reload to change what is written, got %q", content)
	}
}
