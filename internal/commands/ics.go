package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afschrift-dev/afschrift/internal/icspdf"
	"github.com/afschrift-dev/afschrift/internal/ordered"
)

func newICSCommand(configPath *string, verbose *bool) *cobra.Command {
	var output string
	var sortKeys bool

	cmd := &cobra.Command{
		Use:   "ics [files...]",
		Short: "Convert ICS credit-card PDF statements to JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(*verbose || cfg.Logging.Verbose)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			var out []*ordered.Map
			for _, path := range args {
				txns, err := icspdf.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				log.Debug("parsed statement",
					zap.String("file", path),
					zap.Int("transactions", len(txns)))
				for _, t := range txns {
					out = append(out, t.AsJSONLike())
				}
			}
			return writeJSON(cmd.OutOrStdout(), output, out, sortKeys || cfg.Output.SortKeys)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to file instead of stdout")
	cmd.Flags().BoolVar(&sortKeys, "sort-keys", false, "sort mapping keys instead of keeping field order")

	return cmd
}
