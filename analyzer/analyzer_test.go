package analyzer

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/journal"
	"github.com/rustyeddy/tigre/ledger"
	"github.com/rustyeddy/tigre/patterns"
)

// tickClock advances one second per call.
func tickClock() game.Clock {
	now := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestAnalyzer(t *testing.T, opts ...Option) (*Analyzer, *journal.Memory) {
	t.Helper()
	store := journal.NewMemory()
	a, err := New(store, append([]Option{WithClock(tickClock())}, opts...)...)
	require.NoError(t, err)
	return a, store
}

func record(t *testing.T, a *Analyzer, outcomes ...game.Outcome) RecordResult {
	t.Helper()
	var res RecordResult
	for _, o := range outcomes {
		var err error
		res, err = a.RecordOutcome(o)
		require.NoError(t, err)
	}
	return res
}

func encoded(t *testing.T, s journal.State) string {
	t.Helper()
	b, err := journal.Encode(s)
	require.NoError(t, err)
	return string(b)
}

func assertInvariants(t *testing.T, a *Analyzer) {
	t.Helper()
	pending := 0
	for _, s := range a.RecentSignals(0) {
		if s.Pending() {
			pending++
		}
	}
	assert.LessOrEqual(t, pending, 1, "more than one pending signal")
	c := a.PerformanceSnapshot()
	assert.Equal(t, c.Total, c.Hits+c.Misses)
}

func TestScenarioA_SingleOutcomeNoPrediction(t *testing.T) {
	t.Parallel()

	a, store := newTestAnalyzer(t)
	res := record(t, a, game.Dragon)

	assert.Nil(t, res.Match)
	assert.Nil(t, res.Signal)
	assert.Nil(t, res.Resolved)
	assert.Empty(t, a.RecentSignals(10))
	assert.Equal(t, ledger.Counters{}, a.PerformanceSnapshot())
	assert.Equal(t, 1, store.Saves)
}

func TestScenarioB_FourStreak(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	record(t, a, game.Dragon, game.Dragon, game.Dragon)
	assert.Empty(t, a.RecentSignals(0))

	res := record(t, a, game.Dragon)
	require.NotNil(t, res.Match)
	assert.Equal(t, patterns.IDFourStreak, res.Match.PatternID)
	assert.Equal(t, game.Dragon, res.Match.Prediction)

	p, ok := a.Pending()
	require.True(t, ok)
	assert.Equal(t, game.Dragon, p.Prediction)
	assert.Equal(t, res.Entry.Time, p.Time)
}

func TestScenarioC_MissThenD_Undo(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	record(t, a, game.Dragon, game.Dragon, game.Dragon, game.Dragon)
	streak, ok := a.Pending()
	require.True(t, ok)
	beforeTiger := encoded(t, a.State())

	// Scenario C
	res := record(t, a, game.Tiger)
	r, ok := res.Resolution()
	require.True(t, ok)
	assert.Equal(t, ledger.Miss, r)
	assert.Equal(t, streak.ID, res.Resolved.ID)
	assert.Equal(t, ledger.Counters{Total: 1, Misses: 1}, a.PerformanceSnapshot())
	assertInvariants(t, a)

	// Scenario D
	undone, err := a.UndoLast()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, ledger.Counters{}, a.PerformanceSnapshot())

	p, ok := a.Pending()
	require.True(t, ok)
	assert.Equal(t, streak.ID, p.ID)
	assert.Equal(t, ledger.Pending, p.Resolution)
	assert.Equal(t, beforeTiger, encoded(t, a.State()))
}

func TestScenarioE_AlternationFiresOnce(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	res := record(t, a, game.Dragon, game.Tiger, game.Dragon, game.Tiger)

	require.NotNil(t, res.Match)
	assert.Equal(t, patterns.IDZigZag, res.Match.PatternID)
	assert.Equal(t, game.Tiger, res.Match.Prediction)

	// One signal per recorded outcome at most, never two for one window.
	signals := a.RecentSignals(0)
	assert.Len(t, signals, 3)
	assert.Equal(t, patterns.IDZigZag, signals[0].PatternID)
	assert.Equal(t, patterns.IDAlternation, signals[1].PatternID)
	assertInvariants(t, a)
}

func TestResolvedHit(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	record(t, a, game.Dragon, game.Tiger) // alternation predicts Tiger
	res := record(t, a, game.Tiger)

	r, ok := res.Resolution()
	require.True(t, ok)
	assert.Equal(t, ledger.Hit, r)
	assert.Equal(t, 100.0, a.Accuracy())
}

func TestUndoOnEmpty(t *testing.T) {
	t.Parallel()

	a, store := newTestAnalyzer(t)
	undone, err := a.UndoLast()
	require.NoError(t, err)
	assert.False(t, undone)
	assert.Equal(t, 0, store.Saves)
}

func TestClearAllIdempotent(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	record(t, a, game.Dragon, game.Tiger, game.Tiger, game.Dragon, game.Tie)

	require.NoError(t, a.ClearAll())
	first := encoded(t, a.State())
	require.NoError(t, a.ClearAll())
	assert.Equal(t, first, encoded(t, a.State()))

	assert.True(t, a.State().Empty())
	assert.Empty(t, a.History(0))
	_, ok := a.CurrentSuggestion()
	assert.False(t, ok)
}

func TestUndoIsExactInverse(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	a, _ := newTestAnalyzer(t, WithMatcher(patterns.NewMatcher(patterns.WithFallback(true))))

	for i := 0; i < 300; i++ {
		o := game.Outcomes[rng.Intn(len(game.Outcomes))]
		before := encoded(t, a.State())

		record(t, a, o)
		assertInvariants(t, a)

		undone, err := a.UndoLast()
		require.NoError(t, err)
		require.True(t, undone)
		require.Equal(t, before, encoded(t, a.State()), "step %d", i)

		record(t, a, o)
		assertInvariants(t, a)
	}

	c := a.PerformanceSnapshot()
	assert.Greater(t, c.Total, 0)
	assert.Len(t, a.History(0), 300)
}

func TestUndoAllTheWayBack(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	seq, err := game.ParseSequence("DDDDTDTDTTEDDEDD")
	require.NoError(t, err)
	record(t, a, seq...)

	for range seq {
		undone, err := a.UndoLast()
		require.NoError(t, err)
		require.True(t, undone)
		assertInvariants(t, a)
	}
	assert.True(t, a.State().Empty())
}

func TestCurrentSuggestionDoesNotMutate(t *testing.T) {
	t.Parallel()

	a, store := newTestAnalyzer(t)
	record(t, a, game.Dragon, game.Dragon, game.Tiger, game.Tiger)
	before := encoded(t, a.State())
	saves := store.Saves

	m, ok := a.CurrentSuggestion()
	require.True(t, ok)
	assert.Equal(t, patterns.IDDoublePair, m.PatternID)
	assert.Equal(t, before, encoded(t, a.State()))
	assert.Equal(t, saves, store.Saves)
}

func TestHistoryAndRecentSignals(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t)
	record(t, a, game.Dragon, game.Tiger, game.Tie)

	assert.Equal(t, []game.Outcome{game.Tie, game.Tiger}, a.History(2))
	assert.Equal(t, []game.Outcome{game.Tie, game.Tiger, game.Dragon}, a.History(0))

	signals := a.RecentSignals(1)
	require.Len(t, signals, 1)
	assert.Equal(t, patterns.IDTieAnchor, signals[0].PatternID)
}

func TestInvalidOutcomeRejected(t *testing.T) {
	t.Parallel()

	a, store := newTestAnalyzer(t)
	_, err := a.RecordOutcome(game.Unknown)
	assert.ErrorIs(t, err, game.ErrInvalidOutcome)
	assert.Empty(t, a.History(0))
	assert.Equal(t, 0, store.Saves)
}

func TestStatePersistsAcrossSessions(t *testing.T) {
	t.Parallel()

	store, err := journal.NewSQLite(filepath.Join(t.TempDir(), "tigre.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a, err := New(store, WithClock(tickClock()))
	require.NoError(t, err)
	record(t, a, game.Dragon, game.Dragon, game.Dragon, game.Dragon, game.Tiger)
	want := encoded(t, a.State())

	b, err := New(store)
	require.NoError(t, err)
	assert.NoError(t, b.Warning())
	assert.Equal(t, want, encoded(t, b.State()))

	// The reloaded session keeps scoring where the first left off.
	res, err := b.RecordOutcome(game.Tiger)
	require.NoError(t, err)
	r, ok := res.Resolution()
	require.True(t, ok)
	assert.Equal(t, ledger.Hit, r)
	assert.Equal(t, ledger.Counters{Total: 2, Hits: 1, Misses: 1}, b.PerformanceSnapshot())
}

func TestCorruptStateStartsEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	store := journal.NewMemoryWith([]byte(`{"counters":{"total":5,"hits":1,"misses":1}}`))

	a, err := New(store, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	assert.ErrorIs(t, a.Warning(), journal.ErrCorrupt)
	assert.True(t, a.State().Empty())
	assert.Contains(t, buf.String(), "corrupt")

	// The next save replaces the corrupt document.
	_, err = a.RecordOutcome(game.Dragon)
	require.NoError(t, err)
	_, err = store.Load()
	assert.NoError(t, err)
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (f failingStore) Load() (journal.State, error) { return journal.State{}, f.loadErr }
func (f failingStore) Save(journal.State) error    { return f.saveErr }

func TestLoadErrorIsReturned(t *testing.T) {
	t.Parallel()

	_, err := New(failingStore{loadErr: errors.New("disk on fire")})
	assert.ErrorContains(t, err, "disk on fire")
}

func TestSaveErrorKeepsStateApplied(t *testing.T) {
	t.Parallel()

	a, err := New(failingStore{loadErr: journal.ErrNotFound, saveErr: errors.New("read-only")})
	require.NoError(t, err)

	_, err = a.RecordOutcome(game.Dragon)
	assert.ErrorContains(t, err, "read-only")
	assert.Equal(t, []game.Outcome{game.Dragon}, a.History(0))
}

type spyObserver struct {
	outcomes    []game.Outcome
	signals     []string
	resolutions []ledger.Resolution
	last        ledger.Counters
	logLen      int
}

func (s *spyObserver) ObserveOutcome(o game.Outcome) { s.outcomes = append(s.outcomes, o) }
func (s *spyObserver) ObserveSignal(p string, _ game.Outcome) {
	s.signals = append(s.signals, p)
}
func (s *spyObserver) ObserveResolution(r ledger.Resolution) {
	s.resolutions = append(s.resolutions, r)
}
func (s *spyObserver) ObservePerformance(c ledger.Counters, n int) {
	s.last = c
	s.logLen = n
}

func TestObserver(t *testing.T) {
	t.Parallel()

	spy := &spyObserver{}
	a, _ := newTestAnalyzer(t, WithObserver(spy))
	record(t, a, game.Dragon, game.Tiger, game.Tiger)

	assert.Equal(t, []game.Outcome{game.Dragon, game.Tiger, game.Tiger}, spy.outcomes)
	assert.Equal(t, []string{"Alternation"}, spy.signals)
	assert.Equal(t, []ledger.Resolution{ledger.Hit}, spy.resolutions)
	assert.Equal(t, ledger.Counters{Total: 1, Hits: 1}, spy.last)
	assert.Equal(t, 3, spy.logLen)

	_, err := a.UndoLast()
	require.NoError(t, err)
	assert.Equal(t, ledger.Counters{}, spy.last)
	assert.Equal(t, 2, spy.logLen)
}
