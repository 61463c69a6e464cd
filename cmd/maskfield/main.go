package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"maskfield/internal/config"
	"maskfield/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "maskfield",
	Short: "maskfield - format-as-you-type input masks",
	Long: `maskfield formats free-form input against a mask template.

In a template, 9 accepts a digit, a accepts a letter and * accepts either.
Every other character is a literal that is inserted automatically.

  maskfield apply "(999) 999-9999" 5551234567
  maskfield apply @zip 12345-6789
  maskfield form contact`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws, err := resolveWorkspace()
		if err != nil {
			return err
		}

		// A broken config must not block init --force, so file logging
		// falls back to its defaults and the command reports the error.
		settings := logging.Settings{}
		cfg, _, cfgErr := loadConfig()
		if cfgErr == nil {
			settings = cfg.Logging
		}
		if err := logging.Initialize(ws, settings); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		if cfgErr != nil {
			logging.BootWarn("config not loaded: %v", cfgErr)
		}
		logging.Boot("maskfield %s started in %s", cmd.Name(), ws)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: nearest .maskfield or go.mod)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/.maskfield/config.yaml)")

	// Add commands to root
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the --workspace flag or the detected root.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return config.FindWorkspaceRoot()
}

// resolveConfigPath returns the --config flag or the workspace default.
func resolveConfigPath(ws string) string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath(ws)
}

// loadConfig resolves the workspace and loads its configuration.
func loadConfig() (*config.Config, string, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve workspace: %w", err)
	}

	path := resolveConfigPath(ws)
	cfg, err := config.LoadFrom(ws, path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("config loaded", zap.String("workspace", ws), zap.String("path", path))
	return cfg, ws, nil
}

// commandContext returns the command's context, tolerating commands that
// were never executed through cobra.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
