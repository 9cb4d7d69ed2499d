package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/analyzer"
	"github.com/rustyeddy/tigre/game"
)

var recordCmd = &cobra.Command{
	Use:   "record <outcome>...",
	Short: "Record one or more outcomes",
	Long: `Record outcomes in the order they happened. Each argument is a word
(dragon, tiger, tie) or a run of symbols (D, T, E).

The pending suggestion is scored against each outcome before the new
history is matched again.

Examples:
  tigre record d
  tigre record DDTE
  tigre record dragon tiger tie`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	outcomes, err := game.ParseSequence(strings.Join(args, " "))
	if err != nil {
		return err
	}

	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		res, err := a.RecordOutcome(o)
		printRecord(out, res)
		if err != nil {
			return err
		}
	}
	printPerformance(out, a)
	return nil
}

func printRecord(w io.Writer, res analyzer.RecordResult) {
	fmt.Fprintf(w, "%s  %-6s", res.Entry.TimeOfDay(), res.Entry.Outcome)
	if r, ok := res.Resolution(); ok {
		fmt.Fprintf(w, "  %s was %s", res.Resolved.Pattern, r)
	}
	if res.Match != nil {
		fmt.Fprintf(w, "  -> %s: bet %s", res.Match.Name, res.Match.Prediction)
	}
	fmt.Fprintln(w)
}

func printPerformance(w io.Writer, a *analyzer.Analyzer) {
	c := a.PerformanceSnapshot()
	fmt.Fprintf(w, "Signals: %d  Hits: %d  Misses: %d  Accuracy: %.1f%%\n",
		c.Total, c.Hits, c.Misses, c.Accuracy())
}
