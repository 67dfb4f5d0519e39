package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/afschrift-dev/afschrift/internal/desc"
	"github.com/afschrift-dev/afschrift/internal/ordered"
	"github.com/afschrift-dev/afschrift/internal/tsv"
)

func newConvertCommand(configPath *string, verbose *bool) *cobra.Command {
	var output string
	var sortKeys, keepGoing bool

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert TSV account exports (TXT*.TAB) to JSON",
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

			dec := desc.New(desc.WithPreservedRuns(cfg.Decoder.PreserveDoubleSpace...))
			reader := tsv.NewReader(dec, log)
			reader.KeepGoing = keepGoing

			var out []*ordered.Map
			for _, path := range args {
				txns, err := reader.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				for _, t := range txns {
					out = append(out, t.AsJSONLike())
				}
			}
			return writeJSON(cmd.OutOrStdout(), output, out, sortKeys || cfg.Output.SortKeys)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to file instead of stdout")
	cmd.Flags().BoolVar(&sortKeys, "sort-keys", false, "sort mapping keys instead of keeping field order")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "log and skip malformed records instead of stopping")

	return cmd
}

// writeJSON renders the transaction mappings as an indented JSON array
// to the output file, or to w when no file is named.
func writeJSON(w io.Writer, path string, maps []*ordered.Map, sortKeys bool) error {
	if sortKeys {
		for i, m := range maps {
			maps[i] = m.Sorted()
		}
	}
	if maps == nil {
		maps = []*ordered.Map{}
	}

	data, err := json.MarshalIndent(maps, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
