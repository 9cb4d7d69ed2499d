// Package replay runs a recorded outcome sequence through a fresh analyzer
// and reports how the catalog would have scored.
package replay

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tigre/analyzer"
	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/journal"
	"github.com/rustyeddy/tigre/ledger"
	"github.com/rustyeddy/tigre/patterns"
)

type Options struct {
	Matcher *patterns.Matcher

	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger

	// Start is the timestamp of the first outcome when the input carries no
	// times. Zero means time.Now.
	Start time.Time
}

type Report struct {
	Source    string
	Outcomes  int
	Signals   int
	Counters  ledger.Counters
	Accuracy  float64
	ByPattern []ledger.PatternStats

	// Next is the suggestion left pending after the last outcome.
	Next *patterns.Match

	History []game.Outcome
}

// Run reads outcomes from r and records them in order. Input is either CSV
// with a header naming an "outcome" column (and optionally "time"), or lines
// of compact symbols such as "DTTE" or "d,t,t,e". Lines starting with # are
// skipped.
func Run(ctx context.Context, r io.Reader, opts Options) (*Report, error) {
	matcher := opts.Matcher
	if matcher == nil {
		matcher = patterns.NewMatcher()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}

	var cur time.Time
	clock := func() time.Time { return cur }

	a, err := analyzer.New(journal.NewMemory(),
		analyzer.WithMatcher(matcher),
		analyzer.WithLogger(logger),
		analyzer.WithClock(clock),
	)
	if err != nil {
		return nil, err
	}

	in := newReader(r)
	rep := &Report{}
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o, ts, ok, err := in.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if ts.IsZero() {
			ts = start.Add(time.Duration(n) * time.Second)
		}
		cur = ts

		res, err := a.RecordOutcome(o)
		if err != nil {
			return nil, fmt.Errorf("outcome %d: %w", n+1, err)
		}
		rep.Outcomes++
		if res.Signal != nil {
			rep.Signals++
		}
	}

	rep.Counters = a.PerformanceSnapshot()
	rep.Accuracy = a.Accuracy()
	rep.ByPattern = a.PatternStats()
	rep.History = a.History(0)
	if p, ok := a.Pending(); ok {
		rep.Next = &patterns.Match{
			PatternID:  p.PatternID,
			Name:       p.Pattern,
			Prediction: p.Prediction,
		}
	}
	return rep, nil
}

type reader struct {
	r *csv.Reader

	sawFirst bool
	outCol   int
	timeCol  int

	queue []game.Outcome
	stamp time.Time
}

func newReader(r io.Reader) *reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return &reader{r: cr, outCol: -1, timeCol: -1}
}

// next returns the next outcome and its time, zero when the input has none.
func (rd *reader) next() (game.Outcome, time.Time, bool, error) {
	for len(rd.queue) == 0 {
		row, err := rd.r.Read()
		if errors.Is(err, io.EOF) {
			return game.Unknown, time.Time{}, false, nil
		}
		if err != nil {
			return game.Unknown, time.Time{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		if !rd.sawFirst {
			rd.sawFirst = true
			if rd.header(row) {
				continue
			}
		}
		if err := rd.parse(row); err != nil {
			line, _ := rd.r.FieldPos(0)
			return game.Unknown, time.Time{}, false, fmt.Errorf("line %d: %w", line, err)
		}
	}

	o := rd.queue[0]
	rd.queue = rd.queue[1:]
	ts := rd.stamp
	rd.stamp = time.Time{}
	return o, ts, true, nil
}

func (rd *reader) header(row []string) bool {
	found := false
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "outcome", "result":
			rd.outCol = i
			found = true
		case "time":
			rd.timeCol = i
			found = true
		}
	}
	return found
}

func (rd *reader) parse(row []string) error {
	if rd.outCol >= 0 {
		if rd.outCol >= len(row) {
			return fmt.Errorf("missing outcome column")
		}
		o, err := game.ParseOutcome(row[rd.outCol])
		if err != nil {
			return err
		}
		rd.queue = append(rd.queue, o)
		if rd.timeCol >= 0 && rd.timeCol < len(row) {
			ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(row[rd.timeCol]))
			if err != nil {
				return fmt.Errorf("time: %w", err)
			}
			rd.stamp = ts
		}
		return nil
	}

	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339Nano, cell); err == nil {
			continue
		}
		seq, err := game.ParseSequence(cell)
		if err != nil {
			return err
		}
		rd.queue = append(rd.queue, seq...)
	}
	return nil
}
