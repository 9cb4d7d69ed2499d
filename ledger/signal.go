// Package ledger records predictions as signals and scores them against the
// outcome that follows.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tigre/game"
)

// Resolution is the verdict on a signal.
type Resolution uint8

const (
	Pending Resolution = iota
	Hit
	Miss
)

func (r Resolution) String() string {
	switch r {
	case Pending:
		return "pending"
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return fmt.Sprintf("resolution(%d)", uint8(r))
	}
}

func (r Resolution) MarshalText() ([]byte, error) {
	if r > Miss {
		return nil, fmt.Errorf("invalid resolution %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Resolution) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "pending", "":
		*r = Pending
	case "hit":
		*r = Hit
	case "miss":
		*r = Miss
	default:
		return fmt.Errorf("invalid resolution %q", string(b))
	}
	return nil
}

// Signal is a prediction emitted after the outcome recorded at Time.
type Signal struct {
	ID         string       `json:"id"`
	Time       time.Time    `json:"time"`
	PatternID  int          `json:"pattern_id"`
	Pattern    string       `json:"pattern"`
	Prediction game.Outcome `json:"prediction"`
	Resolution Resolution   `json:"resolution"`

	// ResolvedAt is the time of the entry that resolved the signal. Zero
	// while pending.
	ResolvedAt time.Time `json:"resolved_at,omitzero"`
}

func (s Signal) Pending() bool {
	return s.Resolution == Pending
}

// Counters aggregate resolved signals. Total is always Hits + Misses.
type Counters struct {
	Total  int `json:"total"`
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Accuracy is the hit rate in percent, 0 when nothing was resolved.
func (c Counters) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Hits) / float64(c.Total) * 100
}

func (c *Counters) add(r Resolution) {
	switch r {
	case Hit:
		c.Hits++
	case Miss:
		c.Misses++
	default:
		return
	}
	c.Total++
}

func (c *Counters) remove(r Resolution) {
	switch r {
	case Hit:
		c.Hits = max(c.Hits-1, 0)
	case Miss:
		c.Misses = max(c.Misses-1, 0)
	default:
		return
	}
	c.Total = max(c.Total-1, 0)
}
