package replay

import (
	"fmt"
	"io"

	"github.com/rustyeddy/tigre/game"
)

// PrintReport writes a human readable summary of a replay.
func PrintReport(w io.Writer, r *Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Replay Result")
	fmt.Fprintln(w, "==================================================")

	if r.Source != "" {
		fmt.Fprintf(w, "Source:        %s\n", r.Source)
	}
	fmt.Fprintf(w, "Outcomes:      %d\n", r.Outcomes)
	fmt.Fprintf(w, "Signals:       %d\n", r.Signals)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Resolved:      %d\n", r.Counters.Total)
	fmt.Fprintf(w, "Hits:          %d\n", r.Counters.Hits)
	fmt.Fprintf(w, "Misses:        %d\n", r.Counters.Misses)
	fmt.Fprintf(w, "Accuracy:      %.2f%%\n", r.Accuracy)

	if len(r.ByPattern) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "By Pattern")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, p := range r.ByPattern {
			fmt.Fprintf(w, "%3d %-16s %4d/%-4d %6.2f%%\n",
				p.PatternID, p.Pattern, p.Hits, p.Total, p.Accuracy())
		}
	}

	fmt.Fprintln(w)
	if r.Next != nil {
		fmt.Fprintf(w, "Next:          %s -> %s\n", r.Next.Name, r.Next.Prediction)
	} else {
		fmt.Fprintln(w, "Next:          no pattern")
	}
	if len(r.History) > 0 {
		h := r.History
		if len(h) > 20 {
			h = h[:20]
		}
		fmt.Fprintf(w, "Recent:        %s\n", game.FormatHistory(h))
	}
	fmt.Fprintln(w, "==================================================")
}
