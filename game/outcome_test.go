package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Outcome
	}{
		{"D", Dragon},
		{"dragon", Dragon},
		{" A ", Dragon},
		{"t", Tiger},
		{"TIGER", Tiger},
		{"b", Tiger},
		{"E", Tie},
		{"tie", Tie},
		{"empate", Tie},
	}
	for _, tt := range tests {
		got, err := ParseOutcome(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOutcome("banker")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestParseSequence(t *testing.T) {
	t.Parallel()

	got, err := ParseSequence("DDTE")
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Dragon, Dragon, Tiger, Tie}, got)

	got, err = ParseSequence("dragon, tiger tie\nD")
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Dragon, Tiger, Tie, Dragon}, got)

	_, err = ParseSequence("DDZ")
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	// Single letter aliases work as words, not inside a run.
	got, err = ParseSequence("a b x")
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Dragon, Tiger, Tie}, got)

	for _, typo := range []string{"bad", "DDA", "tigre", "ab"} {
		_, err = ParseSequence(typo)
		assert.ErrorIs(t, err, ErrInvalidOutcome, typo)
	}
}

func TestOutcomeOpposite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Tiger, Dragon.Opposite())
	assert.Equal(t, Dragon, Tiger.Opposite())
	assert.Equal(t, Tie, Tie.Opposite())
	assert.True(t, Dragon.IsSide())
	assert.False(t, Tie.IsSide())
	assert.False(t, Unknown.Valid())
}

func TestOutcomeJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Entry{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Outcome: Tiger})
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":"2024-05-01T12:00:00Z","outcome":"tiger"}`, string(b))

	var e Entry
	require.NoError(t, json.Unmarshal(b, &e))
	assert.Equal(t, Tiger, e.Outcome)

	_, err = json.Marshal(Unknown)
	assert.Error(t, err)
}

func TestFormatHistory(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "D T E", FormatHistory([]Outcome{Dragon, Tiger, Tie}))
	assert.Equal(t, "", FormatHistory(nil))
}
