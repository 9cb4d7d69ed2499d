package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the last recorded outcome",
	Long: `Undo the most recent outcome exactly: the signal it created is dropped
and the signal it scored is pending again.`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the history, signals and counters",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(clearCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	ok, err := a.UndoLast()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "Nothing to undo")
		return nil
	}
	fmt.Fprintln(out, "✓ Last outcome removed")
	printPerformance(out, a)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if err := a.ClearAll(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Session cleared")
	return nil
}
