// Package patterns classifies the tail of an outcome sequence against an
// ordered catalog of templates.
package patterns

import (
	"fmt"

	"github.com/rustyeddy/tigre/game"
)

// Template describes one named pattern. Match and Predict receive the
// trailing window of the sequence, oldest first.
type Template struct {
	ID     int
	Name   string
	Advice string

	// Length is the number of trailing outcomes the template needs.
	// Shorter sequences skip the template.
	Length int

	// Span widens the window handed to Match and Predict up to Span
	// outcomes when more history is available. Zero means Length.
	Span int

	Match   func(w []game.Outcome) bool
	Predict func(w []game.Outcome) game.Outcome
}

// window returns the slice of seq the template looks at, or false when seq is
// too short.
func (t Template) window(seq []game.Outcome) ([]game.Outcome, bool) {
	if len(seq) < t.Length {
		return nil, false
	}
	span := t.Span
	if span < t.Length {
		span = t.Length
	}
	if span > len(seq) {
		span = len(seq)
	}
	return seq[len(seq)-span:], true
}

// Literal builds a fixed-length template from a pattern string read oldest to
// newest. 'a' and 'b' bind to two different sides, 'T' is a tie. predict names
// the variable whose side is predicted.
func Literal(id int, name, pattern string, predict byte, advice string) Template {
	if predict != 'a' && predict != 'b' {
		panic(fmt.Sprintf("patterns: literal %q predicts unknown variable %q", name, predict))
	}
	return Template{
		ID:     id,
		Name:   name,
		Advice: advice,
		Length: len(pattern),
		Match: func(w []game.Outcome) bool {
			_, ok := bind(pattern, w)
			return ok
		},
		Predict: func(w []game.Outcome) game.Outcome {
			b, _ := bind(pattern, w)
			return b[predict]
		},
	}
}

// bind matches w against pattern and returns the side bound to each variable.
func bind(pattern string, w []game.Outcome) (map[byte]game.Outcome, bool) {
	if len(w) != len(pattern) {
		return nil, false
	}
	vars := make(map[byte]game.Outcome, 2)
	for i := 0; i < len(pattern); i++ {
		c, o := pattern[i], w[i]
		switch c {
		case 'T':
			if o != game.Tie {
				return nil, false
			}
		case 'a', 'b':
			if !o.IsSide() {
				return nil, false
			}
			if bound, ok := vars[c]; ok {
				if bound != o {
					return nil, false
				}
				continue
			}
			for _, other := range vars {
				if other == o {
					return nil, false
				}
			}
			vars[c] = o
		default:
			return nil, false
		}
	}
	return vars, true
}
