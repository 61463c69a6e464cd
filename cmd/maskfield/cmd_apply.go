package main

import (
	"encoding/json"
	"fmt"

	"maskfield/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applyJSON    bool
	applyPreview bool
)

// applyCmd masks a single value
var applyCmd = &cobra.Command{
	Use:   "apply <template|@preset> <raw>",
	Short: "Mask one value",
	Long: `Masks raw against a template and prints the masked and clean values.

A template starting with @ names a preset (see "maskfield presets").`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Print JSON")
	applyCmd.Flags().BoolVar(&applyPreview, "preview", false, "Include the value padded with the rest of the template")
}

type applyResult struct {
	Template string `json:"template"`
	Masked   string `json:"masked"`
	Clean    string `json:"clean"`
	Complete bool   `json:"complete"`
	Preview  string `json:"preview,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, err := cfg.ResolveTemplate(args[0])
	if err != nil {
		return err
	}

	res := tmpl.Apply(args[1])
	out := applyResult{
		Template: tmpl.Pattern(),
		Masked:   res.Masked,
		Clean:    res.Clean,
		Complete: tmpl.Complete(res.Clean),
	}
	if applyPreview {
		out.Preview = tmpl.Preview(res, cfg.UI.FillRune())
	}
	logger.Debug("applied template",
		zap.String("template", out.Template),
		zap.String("masked", out.Masked),
		zap.Bool("complete", out.Complete))
	logging.MaskDebug("apply %q complete=%v", out.Template, out.Complete)

	w := cmd.OutOrStdout()
	if applyJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "masked:   %s\n", out.Masked)
	fmt.Fprintf(w, "clean:    %s\n", out.Clean)
	fmt.Fprintf(w, "complete: %v\n", out.Complete)
	if applyPreview {
		fmt.Fprintf(w, "preview:  %s\n", out.Preview)
	}
	return nil
}
