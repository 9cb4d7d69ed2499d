package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/analyzer"
	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/metrics"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive session reading outcomes from stdin",
	Long: `Start an interactive session. Each line is one command:

  d, t, e       record dragon, tiger or tie (runs like "ddt" work too)
  undo, u       remove the last outcome
  clear         erase the session
  status, s     show suggestion, performance and history
  quit, q       leave

When metrics.addr is set, Prometheus metrics are served on /metrics for
the length of the session.`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	a, closer, err := openAnalyzer(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	return session(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a)
}

// newLineReader gives line editing and history when in is the terminal and
// plain line reading otherwise.
func newLineReader(in io.Reader, out io.Writer) (*readline.Instance, error) {
	interactive := in == os.Stdin && readline.DefaultIsTerminal()
	c := &readline.Config{
		Prompt:          "> ",
		Stdin:           io.NopCloser(in),
		Stdout:          out,
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		FuncIsTerminal:  func() bool { return interactive },
	}
	if !interactive {
		// Leave the real terminal alone when reading from a pipe or a test.
		c.FuncMakeRaw = func() error { return nil }
		c.FuncExitRaw = func() error { return nil }
	}
	return readline.NewEx(c)
}

func session(ctx context.Context, in io.Reader, out io.Writer, a *analyzer.Analyzer) error {
	rl, err := newLineReader(in, out)
	if err != nil {
		return fmt.Errorf("line reader: %w", err)
	}
	defer rl.Close()

	// Writes through readline keep the prompt intact.
	out = rl.Stdout()
	printPerformance(out, a)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if text == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line := strings.ToLower(strings.TrimSpace(text))
		switch line {
		case "":
		case "q", "quit", "exit":
			return nil
		case "u", "undo":
			ok, err := a.UndoLast()
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(out, "removed last outcome")
			} else {
				fmt.Fprintln(out, "nothing to undo")
			}
		case "clear":
			if err := a.ClearAll(); err != nil {
				return err
			}
			fmt.Fprintln(out, "cleared")
		case "s", "status":
			printStatus(out, a, 10)
		default:
			outcomes, err := game.ParseSequence(line)
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				break
			}
			for _, o := range outcomes {
				res, err := a.RecordOutcome(o)
				printRecord(out, res)
				if err != nil {
					return err
				}
			}
			printPerformance(out, a)
		}
	}
}
