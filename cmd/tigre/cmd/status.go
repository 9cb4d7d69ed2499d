package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/analyzer"
	"github.com/rustyeddy/tigre/game"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current suggestion, performance and history",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "signals and outcomes to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	out := cmd.OutOrStdout()
	printStatus(out, a, statusLimit)
	printSavedAt(out, store)
	return nil
}

// savedAter is implemented by stores that know their last write time.
type savedAter interface {
	SavedAt() (time.Time, error)
}

func printSavedAt(w io.Writer, s analyzer.Store) {
	sa, ok := s.(savedAter)
	if !ok {
		return
	}
	ts, err := sa.SavedAt()
	if err != nil {
		return
	}
	fmt.Fprintf(w, "\nLast saved: %s\n", ts.Local().Format("2006-01-02 15:04:05"))
}

func printStatus(w io.Writer, a *analyzer.Analyzer, n int) {
	fmt.Fprintln(w, "Suggestion")
	fmt.Fprintln(w, "--------------------------------------------------")
	if m, ok := a.CurrentSuggestion(); ok {
		fmt.Fprintf(w, "%s: bet %s\n", m.Name, m.Prediction)
		fmt.Fprintf(w, "  %s\n", m.Advice)
	} else {
		fmt.Fprintln(w, "No pattern, wait for more outcomes")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	printPerformance(w, a)

	if signals := a.RecentSignals(n); len(signals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recent Signals")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, s := range signals {
			fmt.Fprintf(w, "%s  %-16s %-6s %s\n",
				s.Time.Format("15:04:05"), s.Pattern, s.Prediction, s.Resolution)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "History (newest first)")
	fmt.Fprintln(w, "--------------------------------------------------")
	if h := a.History(n); len(h) > 0 {
		fmt.Fprintln(w, game.FormatHistory(h))
	} else {
		fmt.Fprintln(w, "empty")
	}
}
