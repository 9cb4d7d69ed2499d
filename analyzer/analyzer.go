// Package analyzer owns one session: the outcome log, the signal ledger and
// the store they are persisted to.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/journal"
	"github.com/rustyeddy/tigre/ledger"
	"github.com/rustyeddy/tigre/patterns"
)

// Store loads and saves the whole state document.
type Store interface {
	Load() (journal.State, error)
	Save(journal.State) error
}

// Observer is told about every change. metrics.Observer implements it.
type Observer interface {
	ObserveOutcome(game.Outcome)
	ObserveSignal(pattern string, prediction game.Outcome)
	ObserveResolution(ledger.Resolution)
	ObservePerformance(c ledger.Counters, outcomes int)
}

// Analyzer is not safe for concurrent use. Each session owns one.
type Analyzer struct {
	store    Store
	matcher  *patterns.Matcher
	clock    game.Clock
	logger   zerolog.Logger
	observer Observer

	log    *game.Log
	ledger *ledger.Ledger

	warning error
}

type Option func(*Analyzer)

func WithMatcher(m *patterns.Matcher) Option {
	return func(a *Analyzer) { a.matcher = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func WithObserver(o Observer) Option {
	return func(a *Analyzer) { a.observer = o }
}

// WithClock sets the source of entry timestamps.
func WithClock(c game.Clock) Option {
	return func(a *Analyzer) { a.clock = c }
}

// New loads the saved state from store. A missing document starts an empty
// session. A corrupt one is logged, kept as Warning and also starts empty.
// Other load errors are returned.
func New(store Store, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.matcher == nil {
		a.matcher = patterns.NewMatcher()
	}

	state, err := store.Load()
	switch {
	case err == nil:
	case errors.Is(err, journal.ErrNotFound):
		state = journal.State{}
	case errors.Is(err, journal.ErrCorrupt):
		a.logger.Warn().Err(err).Msg("saved state is corrupt, starting empty")
		a.warning = err
		state = journal.State{}
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	var logOpts []game.LogOption
	if a.clock != nil {
		logOpts = append(logOpts, game.WithClock(a.clock))
	}
	a.log = game.NewLog(state.Log, logOpts...)
	a.ledger = ledger.New(state.Signals, state.Counters)

	a.logger.Debug().
		Int("outcomes", a.log.Len()).
		Int("signals", a.ledger.Len()).
		Msg("state loaded")
	return a, nil
}

// Warning returns the load problem that was recovered from, if any.
func (a *Analyzer) Warning() error {
	return a.warning
}

// RecordResult describes what one recorded outcome did.
type RecordResult struct {
	Entry game.Entry

	// Match is the template that fired on the new tail, nil if none.
	Match *patterns.Match

	// Signal is the pending signal created for Match.
	Signal *ledger.Signal

	// Resolved is the earlier signal scored against this outcome.
	Resolved *ledger.Signal
}

// Resolution reports how the previous signal was scored, if one was pending.
func (r RecordResult) Resolution() (ledger.Resolution, bool) {
	if r.Resolved == nil {
		return ledger.Pending, false
	}
	return r.Resolved.Resolution, true
}

// RecordOutcome scores the pending signal against o, appends o, evaluates
// the new tail and persists. A save error is returned with the result; the
// in-memory state is already updated.
func (a *Analyzer) RecordOutcome(o game.Outcome) (RecordResult, error) {
	if !o.Valid() {
		return RecordResult{}, fmt.Errorf("%w: %d", game.ErrInvalidOutcome, uint8(o))
	}

	var res RecordResult

	// Resolve before appending so a signal is never scored against the
	// outcome that produced it.
	ts := a.log.Stamp()
	if sig, ok := a.ledger.ResolvePending(o, ts); ok {
		res.Resolved = &sig
	}
	res.Entry = a.log.Push(game.Entry{Time: ts, Outcome: o})

	if m, ok := a.matcher.Evaluate(a.log.Outcomes()); ok {
		sig := a.ledger.Record(res.Entry.Time, m)
		res.Match = &m
		res.Signal = &sig
	}

	ev := a.logger.Debug().Stringer("outcome", o)
	if res.Resolved != nil {
		ev = ev.Stringer("resolution", res.Resolved.Resolution)
	}
	if res.Match != nil {
		ev = ev.Int("pattern_id", res.Match.PatternID).Stringer("prediction", res.Match.Prediction)
	}
	ev.Msg("outcome recorded")

	if a.observer != nil {
		a.observer.ObserveOutcome(o)
		if res.Resolved != nil {
			a.observer.ObserveResolution(res.Resolved.Resolution)
		}
		if res.Match != nil {
			a.observer.ObserveSignal(res.Match.Name, res.Match.Prediction)
		}
	}

	return res, a.persist()
}

// UndoLast reverts the most recent RecordOutcome exactly. It reports false
// when the log is empty.
func (a *Analyzer) UndoLast() (bool, error) {
	e, ok := a.log.PopLast()
	if !ok {
		return false, nil
	}
	a.ledger.Undo(e.Time)

	a.logger.Debug().Stringer("outcome", e.Outcome).Msg("last outcome undone")
	return true, a.persist()
}

// ClearAll resets the session to the empty state.
func (a *Analyzer) ClearAll() error {
	a.log.Clear()
	a.ledger.Reset()

	a.logger.Debug().Msg("state cleared")
	return a.persist()
}

// CurrentSuggestion evaluates the current log without changing anything.
func (a *Analyzer) CurrentSuggestion() (patterns.Match, bool) {
	return a.matcher.Evaluate(a.log.Outcomes())
}

func (a *Analyzer) PerformanceSnapshot() ledger.Counters {
	return a.ledger.Counters()
}

func (a *Analyzer) Accuracy() float64 {
	return a.ledger.Accuracy()
}

// Pending returns the signal waiting for the next outcome.
func (a *Analyzer) Pending() (ledger.Signal, bool) {
	return a.ledger.Pending()
}

// RecentSignals returns up to n signals newest first; n <= 0 returns all.
func (a *Analyzer) RecentSignals(n int) []ledger.Signal {
	return a.ledger.Recent(n)
}

// History returns up to n outcomes newest first; n <= 0 returns all.
func (a *Analyzer) History(n int) []game.Outcome {
	return a.log.Last(n)
}

func (a *Analyzer) PatternStats() []ledger.PatternStats {
	return a.ledger.PatternStats()
}

// Templates lists the catalog the analyzer matches against.
func (a *Analyzer) Templates() []patterns.Template {
	return a.matcher.Templates()
}

// State returns a copy of the full state.
func (a *Analyzer) State() journal.State {
	return journal.State{
		Log:      a.log.Entries(),
		Signals:  a.ledger.Signals(),
		Counters: a.ledger.Counters(),
	}
}

func (a *Analyzer) persist() error {
	if a.observer != nil {
		a.observer.ObservePerformance(a.ledger.Counters(), a.log.Len())
	}
	if err := a.store.Save(a.State()); err != nil {
		a.logger.Error().Err(err).Msg("save state")
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
