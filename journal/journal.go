// Package journal persists the analyzer state as a single document.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/ledger"
	"github.com/rustyeddy/tigre/pkg/id"
)

var (
	// ErrNotFound means no state was saved yet.
	ErrNotFound = errors.New("journal: no saved state")

	// ErrCorrupt means the saved document could not be decoded or breaks the
	// state invariants. Callers recover by starting from an empty state.
	ErrCorrupt = errors.New("journal: corrupt state")
)

// State is the full persisted unit: outcome log, signal ledger and counters.
type State struct {
	Log      []game.Entry    `json:"log"`
	Signals  []ledger.Signal `json:"signals"`
	Counters ledger.Counters `json:"counters"`
}

// Empty reports whether nothing was recorded.
func (s State) Empty() bool {
	return len(s.Log) == 0 && len(s.Signals) == 0 && s.Counters == (ledger.Counters{})
}

// Validate checks the invariants a loaded document must satisfy.
func (s State) Validate() error {
	for i, e := range s.Log {
		if !e.Outcome.Valid() {
			return fmt.Errorf("log[%d]: invalid outcome", i)
		}
		if i > 0 && !e.Time.After(s.Log[i-1].Time) {
			return fmt.Errorf("log[%d]: time not increasing", i)
		}
	}

	pending := 0
	for i, sig := range s.Signals {
		if _, err := id.Time(sig.ID); err != nil {
			return fmt.Errorf("signals[%d]: id: %w", i, err)
		}
		if !sig.Prediction.Valid() {
			return fmt.Errorf("signals[%d]: invalid prediction", i)
		}
		if sig.Pending() {
			pending++
		}
	}
	if pending > 1 {
		return fmt.Errorf("%d pending signals", pending)
	}

	c := s.Counters
	if c.Total < 0 || c.Hits < 0 || c.Misses < 0 {
		return fmt.Errorf("negative counters %+v", c)
	}
	if c.Total != c.Hits+c.Misses {
		return fmt.Errorf("counters total %d != hits %d + misses %d", c.Total, c.Hits, c.Misses)
	}
	return nil
}

// Encode renders the state document.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses and validates a state document. Any failure is reported as
// ErrCorrupt.
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s, nil
}
