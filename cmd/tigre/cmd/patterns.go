package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/patterns"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the pattern catalog in priority order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := patterns.NewMatcher(cfg.Matcher.MatcherOptions()...)
		out := cmd.OutOrStdout()
		for _, t := range m.Templates() {
			fmt.Fprintf(out, "%3d  %-16s len %-3d %s\n", t.ID, t.Name, t.Length, t.Advice)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
