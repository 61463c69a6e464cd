package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"maskfield/cmd/maskfield/ui"
	"maskfield/internal/store"

	"github.com/spf13/cobra"
)

var (
	historyJSON  bool
	historyLimit int
)

// historyCmd lists saved submissions
var historyCmd = &cobra.Command{
	Use:   "history [form]",
	Short: "List saved form submissions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum submissions to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadConfig()
	if err != nil {
		return err
	}

	var form string
	if len(args) == 1 {
		form = args[0]
	}

	st, err := store.Open(cfg.StorePath(ws))
	if err != nil {
		return err
	}
	defer st.Close()

	subs, err := st.List(commandContext(cmd), form, historyLimit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if historyJSON {
		if subs == nil {
			subs = []store.Submission{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(subs)
	}

	if len(subs) == 0 {
		fmt.Fprintln(w, "No submissions yet.")
		return nil
	}

	table := ui.NewTable("History", "ID", "Form", "Saved", "Values")
	for _, s := range subs {
		table.AddRow(shortID(s.ID), s.Form, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), formatValues(s.Masked))
	}
	fmt.Fprint(w, table.View(ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatValues(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+values[k])
	}
	return strings.Join(parts, ", ")
}
