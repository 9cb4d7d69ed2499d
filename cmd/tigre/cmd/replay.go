package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/patterns"
	"github.com/rustyeddy/tigre/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Score the pattern catalog against a recorded sequence",
	Long: `Replay outcomes from a file through a fresh, in-memory session and print
how the catalog would have scored. The saved session is not touched.

The file is either CSV with a time,outcome header (as written by
"tigre history export") or lines of symbols such as DDTTE.

Examples:
  tigre replay night.csv
  tigre replay --fallback sequence.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var replayFallback bool

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayFallback, "fallback", false, "enable the Camouflage fallback for this replay")
}

func runReplay(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	opts := cfg.Matcher.MatcherOptions()
	if replayFallback {
		opts = append(opts, patterns.WithFallback(true))
	}

	rep, err := replay.Run(cmd.Context(), f, replay.Options{
		Matcher: patterns.NewMatcher(opts...),
		Logger:  &logger,
	})
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	rep.Source = path

	replay.PrintReport(cmd.OutOrStdout(), rep)
	return nil
}
