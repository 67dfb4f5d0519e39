package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afschrift-dev/afschrift/internal/buildinfo"
	"github.com/afschrift-dev/afschrift/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "afschrift",
		Short:   "Convert bank transaction exports to structured JSON",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to afschrift.yaml (default: ./afschrift.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")

	rootCmd.AddCommand(newConvertCommand(&configPath, &verbose))
	rootCmd.AddCommand(newICSCommand(&configPath, &verbose))

	return rootCmd
}

// loadConfig resolves the effective configuration. A missing default
// file is fine; a missing explicit --config file is not.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(config.DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// newLogger builds the diagnostics logger. Logs go to stderr; stdout
// is reserved for JSON output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
