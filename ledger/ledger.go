package ledger

import (
	"sort"
	"time"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/patterns"
	"github.com/rustyeddy/tigre/pkg/id"
)

// Ledger holds signals oldest first together with the running counters.
// There is at most one pending signal at any time.
type Ledger struct {
	signals  []Signal
	counters Counters
	newID    func(time.Time) string
}

// New returns a ledger seeded with signals and counters (copied).
func New(signals []Signal, counters Counters) *Ledger {
	return &Ledger{
		signals:  append([]Signal(nil), signals...),
		counters: counters,
		newID:    id.At,
	}
}

// ResolvePending scores the newest pending signal against observed. at is
// the time of the entry being recorded. It reports false when no signal is
// pending.
func (l *Ledger) ResolvePending(observed game.Outcome, at time.Time) (Signal, bool) {
	for i := len(l.signals) - 1; i >= 0; i-- {
		s := &l.signals[i]
		if !s.Pending() {
			continue
		}
		if s.Prediction == observed {
			s.Resolution = Hit
		} else {
			s.Resolution = Miss
		}
		s.ResolvedAt = at
		l.counters.add(s.Resolution)
		return *s, true
	}
	return Signal{}, false
}

// Record appends a pending signal for the match found after the entry at.
// Signals are not deduplicated.
func (l *Ledger) Record(at time.Time, m patterns.Match) Signal {
	s := Signal{
		ID:         l.newID(at),
		Time:       at,
		PatternID:  m.PatternID,
		Pattern:    m.Name,
		Prediction: m.Prediction,
		Resolution: Pending,
	}
	l.signals = append(l.signals, s)
	return s
}

// Undo reverses the bookkeeping done when the entry at removedAt was
// recorded: the signal it created is dropped and the signal it resolved goes
// back to pending. Counters never drop below zero.
func (l *Ledger) Undo(removedAt time.Time) {
	if n := len(l.signals); n > 0 && l.signals[n-1].Time.Equal(removedAt) {
		l.counters.remove(l.signals[n-1].Resolution)
		l.signals = l.signals[:n-1]
	}

	for i := len(l.signals) - 1; i >= 0; i-- {
		s := &l.signals[i]
		if s.Pending() || !s.ResolvedAt.Equal(removedAt) {
			continue
		}
		l.counters.remove(s.Resolution)
		s.Resolution = Pending
		s.ResolvedAt = time.Time{}
	}
}

// Pending returns the pending signal, if any.
func (l *Ledger) Pending() (Signal, bool) {
	for i := len(l.signals) - 1; i >= 0; i-- {
		if l.signals[i].Pending() {
			return l.signals[i], true
		}
	}
	return Signal{}, false
}

func (l *Ledger) Counters() Counters {
	return l.counters
}

// Accuracy is Hits / Total * 100, 0 when nothing was resolved.
func (l *Ledger) Accuracy() float64 {
	return l.counters.Accuracy()
}

// Signals returns a copy of all signals, oldest first.
func (l *Ledger) Signals() []Signal {
	return append([]Signal(nil), l.signals...)
}

// Recent returns up to n signals newest first. n <= 0 means all.
func (l *Ledger) Recent(n int) []Signal {
	if n <= 0 || n > len(l.signals) {
		n = len(l.signals)
	}
	out := make([]Signal, 0, n)
	for i := len(l.signals) - 1; i >= len(l.signals)-n; i-- {
		out = append(out, l.signals[i])
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.signals)
}

func (l *Ledger) Reset() {
	l.signals = nil
	l.counters = Counters{}
}

// PatternStats is the scorecard of one template.
type PatternStats struct {
	PatternID int
	Pattern   string
	Counters
	Pending int
}

// PatternStats groups signals by template, ordered by pattern id.
func (l *Ledger) PatternStats() []PatternStats {
	byID := map[int]*PatternStats{}
	for _, s := range l.signals {
		ps, ok := byID[s.PatternID]
		if !ok {
			ps = &PatternStats{PatternID: s.PatternID, Pattern: s.Pattern}
			byID[s.PatternID] = ps
		}
		if s.Pending() {
			ps.Pending++
			continue
		}
		ps.add(s.Resolution)
	}

	out := make([]PatternStats, 0, len(byID))
	for _, ps := range byID {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatternID < out[j].PatternID })
	return out
}
