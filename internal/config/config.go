package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"maskfield/internal/logging"
	"maskfield/internal/mask"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownPreset is returned when a template reference names no preset.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrUnknownForm is returned when a form name is not configured.
	ErrUnknownForm = errors.New("unknown form")
)

// DirName is the per-workspace state directory.
const DirName = ".maskfield"

// Config holds all maskfield configuration.
type Config struct {
	// Presets adds or overrides named templates (name -> pattern).
	Presets map[string]string `yaml:"presets,omitempty"`

	// Forms defines interactive forms by name.
	Forms map[string]FormConfig `yaml:"forms,omitempty"`

	UI      UIConfig         `yaml:"ui"`
	Store   StoreConfig      `yaml:"store"`
	Logging logging.Settings `yaml:"logging"`
}

// FormConfig describes an ordered set of masked fields.
type FormConfig struct {
	Title  string        `yaml:"title"`
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig describes one masked field. Exactly one of Mask or Preset is set.
type FieldConfig struct {
	Name     string `yaml:"name"`
	Label    string `yaml:"label,omitempty"`
	Mask     string `yaml:"mask,omitempty"`
	Preset   string `yaml:"preset,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

// StoreConfig configures submission history.
type StoreConfig struct {
	// Path of the SQLite database, relative to the workspace unless absolute.
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Presets: map[string]string{},
		Forms: map[string]FormConfig{
			"contact": {
				Title: "Contact details",
				Fields: []FieldConfig{
					{Name: "phone", Label: "Phone", Preset: "phone-us", Required: true},
					{Name: "zip", Label: "ZIP code", Preset: "zip"},
				},
			},
			"payment": {
				Title: "Payment card",
				Fields: []FieldConfig{
					{Name: "card", Label: "Card number", Preset: "credit-card", Required: true},
					{Name: "expiry", Label: "Expiry", Mask: "99/99", Required: true},
					{Name: "cvc", Label: "CVC", Mask: "999", Required: true},
				},
			},
		},
		UI:      *DefaultUIConfig(),
		Store:   StoreConfig{Path: filepath.Join(DirName, "history.db")},
		Logging: logging.Settings{Level: "info", Format: "text"},
	}
}

// DefaultPath returns the config file location for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, DirName, "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		data = nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWorkspace loads <workspace>/.env (if present) into the environment and
// then the workspace config file.
func LoadWorkspace(workspace string) (*Config, error) {
	return LoadFrom(workspace, DefaultPath(workspace))
}

// LoadFrom is LoadWorkspace with an explicit config file. The workspace .env
// still applies.
func LoadFrom(workspace, path string) (*Config, error) {
	envPath := filepath.Join(workspace, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}
	return Load(path)
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if theme := os.Getenv("MASKFIELD_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if fill := os.Getenv("MASKFIELD_FILL"); fill != "" {
		c.UI.Fill = fill
	}
	if path := os.Getenv("MASKFIELD_DB"); path != "" {
		c.Store.Path = path
	}
	if os.Getenv("MASKFIELD_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// Validate checks that every form field resolves to a template.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.FormNames() {
		form := c.Forms[name]
		seen := make(map[string]bool, len(form.Fields))
		for i, f := range form.Fields {
			switch {
			case f.Name == "":
				errs = append(errs, fmt.Errorf("form %q field %d: missing name", name, i))
				continue
			case seen[f.Name]:
				errs = append(errs, fmt.Errorf("form %q: duplicate field %q", name, f.Name))
			}
			seen[f.Name] = true

			if f.Mask != "" && f.Preset != "" {
				errs = append(errs, fmt.Errorf("form %q field %q: mask and preset are exclusive", name, f.Name))
				continue
			}
			if _, err := c.FieldTemplate(f); err != nil {
				errs = append(errs, fmt.Errorf("form %q field %q: %w", name, f.Name, err))
			}
		}
	}
	if c.UI.Fill != "" && utf8.RuneCountInString(c.UI.Fill) != 1 {
		errs = append(errs, fmt.Errorf("ui.fill must be a single character, got %q", c.UI.Fill))
	}
	return errors.Join(errs...)
}

// Preset resolves a named template. Configured presets shadow built-ins.
func (c *Config) Preset(name string) (mask.Template, error) {
	if pattern, ok := c.Presets[name]; ok {
		return mask.Compile(pattern), nil
	}
	if tmpl, ok := mask.Lookup(name); ok {
		return tmpl, nil
	}
	return mask.Template{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ResolveTemplate turns a command-line template reference into a template.
// References starting with '@' name a preset, anything else is a literal pattern.
func (c *Config) ResolveTemplate(ref string) (mask.Template, error) {
	if name, ok := strings.CutPrefix(ref, "@"); ok {
		return c.Preset(name)
	}
	return mask.Compile(ref), nil
}

// FieldTemplate resolves the template for a field definition.
func (c *Config) FieldTemplate(f FieldConfig) (mask.Template, error) {
	if f.Preset != "" {
		return c.Preset(f.Preset)
	}
	if f.Mask == "" {
		return mask.Template{}, errors.New("no mask or preset")
	}
	return mask.Compile(f.Mask), nil
}

// Form returns the named form definition.
func (c *Config) Form(name string) (FormConfig, error) {
	form, ok := c.Forms[name]
	if !ok {
		return FormConfig{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return form, nil
}

// FormNames returns configured form names in sorted order.
func (c *Config) FormNames() []string {
	names := make([]string, 0, len(c.Forms))
	for name := range c.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllPresets merges built-in and configured presets, sorted by name.
func (c *Config) AllPresets() []mask.Preset {
	byName := make(map[string]mask.Preset)
	for _, p := range mask.Presets() {
		byName[p.Name] = p
	}
	for name, pattern := range c.Presets {
		p := mask.Preset{Name: name, Pattern: pattern, Description: "Configured preset"}
		if builtin, ok := byName[name]; ok {
			p.Description = builtin.Description + " (overridden)"
		}
		byName[name] = p
	}

	out := make([]mask.Preset, 0, len(byName))
	for _, p := range byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StorePath resolves the database path against the workspace.
func (c *Config) StorePath(workspace string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(workspace, c.Store.Path)
}

// FindWorkspaceRoot walks up from the working directory looking for a
// .maskfield directory, then go.mod. Falls back to the working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DirName)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return originalDir, nil
}
