package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/ledger"
)

var (
	signalsHeader  = []string{"signal_id", "time", "pattern_id", "pattern", "prediction", "resolution", "resolved_at"}
	outcomesHeader = []string{"time", "outcome"}
)

// WriteSignalsCSV writes signals in the order given, with a header row.
func WriteSignalsCSV(w io.Writer, signals []ledger.Signal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(signalsHeader); err != nil {
		return err
	}
	for _, s := range signals {
		err := cw.Write([]string{
			s.ID,
			s.Time.Format(time.RFC3339Nano),
			strconv.Itoa(s.PatternID),
			s.Pattern,
			s.Prediction.String(),
			s.Resolution.String(),
			formatOptionalTime(s.ResolvedAt),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOutcomesCSV writes the outcome log with a header row. The output can
// be fed back to replay.
func WriteOutcomesCSV(w io.Writer, entries []game.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outcomesHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Time.Format(time.RFC3339Nano), e.Outcome.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
