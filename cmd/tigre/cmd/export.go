package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/journal"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Inspect recorded signals",
	Long: `Query and export the signal ledger.

Subcommands:
  export - Write all signals as CSV, Org entries or an Org session summary

Examples:
  tigre signals export --format csv -o signals.csv
  tigre signals export --format org
  tigre signals export --format summary`,
}

var signalsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export signals",
	Args:  cobra.NoArgs,
	RunE:  runSignalsExport,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the outcome history",
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export outcomes as CSV (time,outcome), readable by replay",
	Args:  cobra.NoArgs,
	RunE:  runHistoryExport,
}

var (
	signalsFormat string
	signalsOutput string
	historyOutput string
)

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsExportCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyExportCmd)

	signalsExportCmd.Flags().StringVarP(&signalsFormat, "format", "f", "csv", "csv, org or summary")
	signalsExportCmd.Flags().StringVarP(&signalsOutput, "output", "o", "", "output file (default stdout)")
	historyExportCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "output file (default stdout)")
}

func runSignalsExport(cmd *cobra.Command, args []string) error {
	switch signalsFormat {
	case "csv", "org", "summary":
	default:
		return fmt.Errorf("unknown format %q (want csv, org or summary)", signalsFormat)
	}

	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	return withOutput(cmd, signalsOutput, func(w io.Writer) error {
		switch signalsFormat {
		case "org":
			_, err := fmt.Fprintln(w, journal.FormatSignalsOrg(a.RecentSignals(0)))
			return err
		case "summary":
			s, err := journal.FormatSessionOrg(a.State(), time.Now())
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, s)
			return err
		}
		// Oldest first, like the log.
		return journal.WriteSignalsCSV(w, a.State().Signals)
	})
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	return withOutput(cmd, historyOutput, func(w io.Writer) error {
		return journal.WriteOutcomesCSV(w, a.State().Log)
	})
}

// withOutput runs fn against path, or stdout when path is empty.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
	return nil
}
