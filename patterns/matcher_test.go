package patterns

import (
	"testing"

	"github.com/rustyeddy/tigre/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(t *testing.T, s string) []game.Outcome {
	t.Helper()
	out, err := game.ParseSequence(s)
	require.NoError(t, err)
	return out
}

func TestEvaluate_Catalog(t *testing.T) {
	t.Parallel()

	m := NewMatcher()

	tests := []struct {
		name    string
		history string // D dragon, T tiger, E tie; oldest first
		wantID  int
		want    game.Outcome
		noMatch bool
	}{
		{name: "empty", history: "", noMatch: true},
		{name: "single outcome", history: "D", noMatch: true},
		{name: "pair of same side", history: "DD", noMatch: true},
		{name: "three of a kind", history: "DDD", noMatch: true},
		{name: "four streak", history: "DDDD", wantID: IDFourStreak, want: game.Dragon},
		{name: "longer streak still four streak", history: "TDDDDD", wantID: IDFourStreak, want: game.Dragon},
		{name: "staircase beats four streak", history: "DTTDDDTTTT", wantID: IDStaircase, want: game.Tiger},
		{name: "double pair", history: "DDTT", wantID: IDDoublePair, want: game.Dragon},
		{name: "zig-zag", history: "DTDT", wantID: IDZigZag, want: game.Tiger},
		{name: "mirror", history: "DTTD", wantID: IDMirror, want: game.Tiger},
		{name: "block repeat", history: "DTTDTT", wantID: IDBlockRepeat, want: game.Tiger},
		{name: "block repeat bets newest", history: "TDDTDD", wantID: IDBlockRepeat, want: game.Dragon},
		{name: "dominance", history: "DTDDTDDDDT", wantID: IDDominance, want: game.Dragon},
		{name: "tie sandwich", history: "DDEDD", wantID: IDTieSandwich, want: game.Dragon},
		{name: "tie anchor", history: "TTE", wantID: IDTieAnchor, want: game.Tiger},
		{name: "delayed anchor", history: "DET", wantID: IDDelayedAnchor, want: game.Dragon},
		{name: "alternation", history: "DT", wantID: IDAlternation, want: game.Tiger},
		{name: "tie then side alternates", history: "ED", wantID: IDAlternation, want: game.Dragon},
		{name: "two ties", history: "DEE", noMatch: true},
		{name: "no fallback by default", history: "DTT", noMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Evaluate(seq(t, tt.history))
			if tt.noMatch {
				assert.False(t, ok, "unexpected match %+v", got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, got.PatternID, got.Name)
			assert.Equal(t, tt.want, got.Prediction)
			assert.NotEmpty(t, got.Name)
			assert.NotEmpty(t, got.Advice)
		})
	}
}

func TestEvaluate_ExactlyOneTemplateFires(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	s := seq(t, "DTDT")

	candidates := m.Candidates(s)
	require.Len(t, candidates, 2)
	assert.Equal(t, IDZigZag, candidates[0].PatternID)
	assert.Equal(t, IDAlternation, candidates[1].PatternID)

	got, ok := m.Evaluate(s)
	require.True(t, ok)
	assert.Equal(t, candidates[0], got)
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	m := NewMatcher(WithFallback(true))
	s := seq(t, "DTTDEDDTDTTDDE")

	first, ok := m.Evaluate(s)
	for i := 0; i < 50; i++ {
		got, gotOK := m.Evaluate(s)
		assert.Equal(t, ok, gotOK)
		assert.Equal(t, first, got)
	}
}

func TestEvaluate_DominanceThreshold(t *testing.T) {
	t.Parallel()

	s := seq(t, "DTDDTDDDDT")

	got, ok := NewMatcher(WithDominance(10, 8)).Evaluate(s)
	require.True(t, ok)
	assert.Equal(t, IDAlternation, got.PatternID)
	assert.Equal(t, game.Tiger, got.Prediction)

	got, ok = NewMatcher(WithDominance(10, 7)).Evaluate(s)
	require.True(t, ok)
	assert.Equal(t, IDDominance, got.PatternID)
}

func TestEvaluate_Fallback(t *testing.T) {
	t.Parallel()

	m := NewMatcher(WithFallback(true))

	got, ok := m.Evaluate(seq(t, "DTT"))
	require.True(t, ok)
	assert.Equal(t, IDCamouflage, got.PatternID)
	assert.Equal(t, game.Dragon, got.Prediction, "side that is behind")

	got, ok = m.Evaluate(seq(t, "TDD"))
	require.True(t, ok)
	assert.Equal(t, game.Tiger, got.Prediction)

	_, ok = m.Evaluate(seq(t, "DD"))
	assert.False(t, ok, "one side only gives no camouflage bet")

	// Higher priority templates still win.
	got, ok = m.Evaluate(seq(t, "DDDD"))
	require.True(t, ok)
	assert.Equal(t, IDFourStreak, got.PatternID)
}

func TestTemplatesSkippedUntilLongEnough(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	s := seq(t, "DDD")
	_, ok := m.Evaluate(s)
	assert.False(t, ok)

	got, ok := m.Evaluate(append(s, game.Dragon))
	require.True(t, ok)
	assert.Equal(t, IDFourStreak, got.PatternID)
}

func TestCatalogIDsUnique(t *testing.T) {
	t.Parallel()

	seen := map[int]string{}
	for _, tpl := range NewMatcher(WithFallback(true)).Templates() {
		prev, dup := seen[tpl.ID]
		assert.False(t, dup, "id %d used by %s and %s", tpl.ID, prev, tpl.Name)
		seen[tpl.ID] = tpl.Name
	}
	assert.Len(t, seen, 12)
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	tpl := Literal(100, "test", "abTa", 'b', "")
	assert.Equal(t, 4, tpl.Length)

	assert.True(t, tpl.Match(seq(t, "DTED")))
	assert.Equal(t, game.Tiger, tpl.Predict(seq(t, "DTED")))
	assert.False(t, tpl.Match(seq(t, "DDED")), "a and b must differ")
	assert.False(t, tpl.Match(seq(t, "DTDD")), "T must be a tie")
	assert.False(t, tpl.Match(seq(t, "ETED")), "variables bind to sides only")

	assert.Panics(t, func() { Literal(1, "bad", "aa", 'c', "") })
}

func TestNewMatcherWith(t *testing.T) {
	t.Parallel()

	m := NewMatcherWith([]Template{Literal(42, "pair", "aa", 'a', "")})
	got, ok := m.Evaluate(seq(t, "TT"))
	require.True(t, ok)
	assert.Equal(t, 42, got.PatternID)
	assert.Equal(t, game.Tiger, got.Prediction)
}
