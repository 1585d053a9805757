// Package cli implements the lexdocket command line tool: offline deadline
// calculations, cascade previews and holiday calendar listings backed by the
// built-in rule catalog.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// RootOptions carries flags shared by every subcommand.
type RootOptions struct {
	Output string
}

// NewRootCommand builds the lexdocket root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "lexdocket",
		Short: "Litigation deadline computation engine",
		Long: `lexdocket computes litigation deadlines with full audit trails:
jurisdiction-aware date arithmetic, holiday and weekend skipping, service
method extensions and rule template cascades.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text",
		"output format: text, json or table")

	cmd.AddCommand(newCalcCommand(opts))
	cmd.AddCommand(newCascadeCommand(opts))
	cmd.AddCommand(newHolidaysCommand(opts))
	return cmd
}

// printJSON renders v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatTable renders rows with padded columns under a header line.
func formatTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(headers)
	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", widths[i])
	}
	writeRow(separators)
	for _, row := range rows {
		writeRow(row)
	}
}
