package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MASKFIELD_THEME", "MASKFIELD_FILL", "MASKFIELD_DB", "MASKFIELD_DEBUG"} {
		t.Setenv(key, "")
	}
}

// unsetEnv clears key for the test so a .env file may set it; godotenv never
// overrides a variable that exists, even when empty.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"contact", "payment"}, cfg.FormNames())
	assert.Equal(t, '_', cfg.UI.FillRune())
	assert.Equal(t, filepath.Join(DirName, "history.db"), cfg.Store.Path)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Presets["badge"] = "aa-9999"
	cfg.Forms["badge"] = FormConfig{
		Title:  "Badge",
		Fields: []FieldConfig{{Name: "id", Preset: "badge", Required: true}},
	}
	cfg.UI.Theme = "dark"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "aa-9999", loaded.Presets["badge"])
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.Equal(t, []string{"badge", "contact", "payment"}, loaded.FormNames())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forms: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownPreset(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
forms:
  broken:
    fields:
      - name: x
        preset: does-not-exist
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MASKFIELD_THEME", "dark")
	t.Setenv("MASKFIELD_FILL", "#")
	t.Setenv("MASKFIELD_DB", "/tmp/other.db")
	t.Setenv("MASKFIELD_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, '#', cfg.UI.FillRune())
	assert.Equal(t, "/tmp/other.db", cfg.StorePath("/ws"))
	assert.True(t, cfg.Logging.DebugMode)
}

func TestLoadWorkspace_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	unsetEnv(t, "MASKFIELD_THEME")
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".env"), []byte("MASKFIELD_THEME=dark\n"), 0644))

	cfg, err := LoadWorkspace(ws)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadFrom_ExplicitPathKeepsDotEnvAndLogging(t *testing.T) {
	clearEnv(t)
	unsetEnv(t, "MASKFIELD_FILL")
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".env"), []byte("MASKFIELD_FILL=#\n"), 0644))

	path := filepath.Join(t.TempDir(), "elsewhere.yaml")
	content := `
logging:
  level: debug
  debug_mode: true
  categories:
    store: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(ws, path)
	require.NoError(t, err)
	assert.Equal(t, '#', cfg.UI.FillRune())
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, map[string]bool{"store": false}, cfg.Logging.Categories)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Forms["bad"] = FormConfig{Fields: []FieldConfig{
		{Name: ""},
		{Name: "a", Mask: "99"},
		{Name: "a", Mask: "99"},
		{Name: "b", Mask: "99", Preset: "zip"},
		{Name: "c"},
	}}
	cfg.UI.Fill = "ab"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"missing name", "duplicate field", "exclusive", "no mask or preset", "single character"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfig_ResolveTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presets["phone-us"] = "999.999.9999"

	tmpl, err := cfg.ResolveTemplate("@phone-us")
	require.NoError(t, err)
	assert.Equal(t, "999.999.9999", tmpl.Pattern())

	tmpl, err = cfg.ResolveTemplate("@zip")
	require.NoError(t, err)
	assert.Equal(t, "99999", tmpl.Pattern())

	tmpl, err = cfg.ResolveTemplate("aa-99")
	require.NoError(t, err)
	assert.Equal(t, "aa-99", tmpl.Pattern())

	_, err = cfg.ResolveTemplate("@nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestConfig_Form(t *testing.T) {
	cfg := DefaultConfig()

	form, err := cfg.Form("contact")
	require.NoError(t, err)
	assert.Equal(t, "phone", form.Fields[0].Name)

	_, err = cfg.Form("missing")
	assert.ErrorIs(t, err, ErrUnknownForm)
}

func TestConfig_AllPresets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presets["zip"] = "99999-9999"
	cfg.Presets["badge"] = "aa-9999"

	presets := cfg.AllPresets()
	byName := map[string]string{}
	for _, p := range presets {
		byName[p.Name] = p.Pattern
	}
	assert.Equal(t, "99999-9999", byName["zip"])
	assert.Equal(t, "aa-9999", byName["badge"])
	assert.Equal(t, "(999) 999-9999", byName["phone-us"])
}

func TestFindWorkspaceRoot_PrefersStateDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, DirName), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	origWD, _ := os.Getwd()
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindWorkspaceRoot()
	require.NoError(t, err)

	// Resolve symlinks so macOS /private/var temp dirs compare equal.
	want, _ := filepath.EvalSymlinks(root)
	got, _ = filepath.EvalSymlinks(got)
	assert.Equal(t, want, got)
}
