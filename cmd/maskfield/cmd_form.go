package main

import (
	"fmt"
	"sort"

	"maskfield/cmd/maskfield/ui"
	"maskfield/internal/config"
	"maskfield/internal/field"
	"maskfield/internal/logging"
	"maskfield/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	formSet   map[string]string
	formNoTUI bool
)

// formCmd runs an interactive form
var formCmd = &cobra.Command{
	Use:   "form [name]",
	Short: "Fill in a configured form",
	Long: `Opens a form of masked fields. Values are formatted as you type and
saved to the workspace history on submit.

Without a name, the configured forms are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runForm,
}

func init() {
	formCmd.Flags().StringToStringVar(&formSet, "set", nil, "Prefill a field (name=raw), repeatable")
	formCmd.Flags().BoolVar(&formNoTUI, "no-tui", false, "Validate and save the --set values without the interactive form")
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadConfig()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range cfg.FormNames() {
			fmt.Fprintf(w, "%-12s %s\n", name, cfg.Forms[name].Title)
		}
		return nil
	}

	form, err := field.FromConfig(cfg, args[0])
	if err != nil {
		return err
	}
	if err := prefill(form, formSet); err != nil {
		return err
	}

	st, err := store.Open(cfg.StorePath(ws))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	var saved store.Submission
	save := func(f *field.Form) error {
		sub, err := st.Save(ctx, store.Submission{
			Form:   f.Name(),
			Values: f.Values(),
			Masked: f.Masked(),
		})
		if err != nil {
			return err
		}
		saved = sub
		logger.Info("submission saved", zap.String("form", f.Name()), zap.String("id", sub.ID))
		return nil
	}

	if formNoTUI {
		if err := form.Validate(); err != nil {
			return err
		}
		if err := save(form); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s submission %s\n", form.Name(), saved.ID)
		return nil
	}

	opts := ui.FormOptions{
		Fill:     cfg.UI.FillRune(),
		Width:    cfg.UI.Width,
		OnSubmit: save,
	}

	watcher, err := config.NewWatcher(resolveConfigPath(ws))
	if err == nil {
		err = watcher.Start(ctx)
	}
	if err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
	} else {
		opts.ConfigUpdates = watcher.Updates()
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	model := ui.NewFormModel(form, ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)), opts)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("form failed: %w", err)
	}

	if fm, ok := final.(ui.FormModel); ok && fm.Submitted() {
		fmt.Fprintf(w, "Saved %s submission %s\n", form.Name(), saved.ID)
		return nil
	}
	fmt.Fprintln(w, "Aborted, nothing saved")
	return nil
}

// prefill feeds raw values through each field's normal input path.
func prefill(form *field.Form, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := form.Field(name)
		if err != nil {
			return err
		}
		f.Input(values[name])
		logging.Field("prefilled %s.%s complete=%v", form.Name(), name, f.Complete())
	}
	return nil
}
