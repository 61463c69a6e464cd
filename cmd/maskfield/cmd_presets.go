package main

import (
	"fmt"
	"strconv"
	"strings"

	"maskfield/cmd/maskfield/ui"
	"maskfield/internal/mask"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var presetsMarkdown bool

// presetsCmd lists the named templates
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in and configured presets",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsMarkdown, "markdown", false, "Render a markdown reference instead of a table")
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	presets := cfg.AllPresets()
	w := cmd.OutOrStdout()

	if presetsMarkdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		out, err := r.Render(presetsDoc(presets))
		if err != nil {
			return fmt.Errorf("failed to render presets: %w", err)
		}
		fmt.Fprint(w, out)
		return nil
	}

	table := ui.NewTable("Presets", "Name", "Pattern", "Slots", "Description")
	for _, p := range presets {
		table.AddRow("@"+p.Name, p.Pattern, strconv.Itoa(mask.Compile(p.Pattern).Slots()), p.Description)
	}
	fmt.Fprint(w, table.View(ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))))
	return nil
}

func presetsDoc(presets []mask.Preset) string {
	var sb strings.Builder
	sb.WriteString("# Presets\n\n")
	sb.WriteString("Use a preset with `@name`, e.g. `maskfield apply @zip 12345`.\n\n")
	for _, p := range presets {
		fmt.Fprintf(&sb, "- **%s** `%s`", p.Name, p.Pattern)
		if p.Description != "" {
			fmt.Fprintf(&sb, " %s", p.Description)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n`9` digit, `a` letter, `*` letter or digit. Anything else is inserted as-is.\n")
	return sb.String()
}
