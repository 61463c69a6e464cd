package config

import "unicode/utf8"

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme is "light" or "dark"; empty means detect from the terminal.
	Theme string `yaml:"theme,omitempty"`

	// Fill is the character shown in unfilled placeholder slots.
	Fill string `yaml:"fill,omitempty"`

	// Width of each input field in cells (0 = template length).
	Width int `yaml:"width,omitempty"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Fill: "_",
	}
}

// FillRune returns the placeholder fill character.
func (u UIConfig) FillRune() rune {
	if r, size := utf8.DecodeRuneInString(u.Fill); size > 0 && r != utf8.RuneError {
		return r
	}
	return '_'
}
