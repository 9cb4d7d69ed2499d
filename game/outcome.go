package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidOutcome is returned when text cannot be mapped to an Outcome.
var ErrInvalidOutcome = errors.New("invalid outcome")

// Outcome is the result of a single round: one of the two sides or a tie.
type Outcome uint8

const (
	Unknown Outcome = iota
	Dragon          // side A
	Tiger           // side B
	Tie
)

// Outcomes lists the valid outcomes in display order.
var Outcomes = []Outcome{Dragon, Tiger, Tie}

func (o Outcome) String() string {
	switch o {
	case Dragon:
		return "dragon"
	case Tiger:
		return "tiger"
	case Tie:
		return "tie"
	default:
		return "unknown"
	}
}

// Symbol is the one letter form used in compact histories.
func (o Outcome) Symbol() string {
	switch o {
	case Dragon:
		return "D"
	case Tiger:
		return "T"
	case Tie:
		return "E"
	default:
		return "?"
	}
}

func (o Outcome) Valid() bool {
	return o == Dragon || o == Tiger || o == Tie
}

// IsSide reports whether o is one of the two betting sides.
func (o Outcome) IsSide() bool {
	return o == Dragon || o == Tiger
}

// Opposite returns the other side. A tie has no opposite and maps to itself.
func (o Outcome) Opposite() Outcome {
	switch o {
	case Dragon:
		return Tiger
	case Tiger:
		return Dragon
	default:
		return o
	}
}

// ParseOutcome accepts the long names, the one letter symbols and a few
// aliases, case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "dragon", "a", "sidea", "side-a":
		return Dragon, nil
	case "t", "tiger", "b", "sideb", "side-b":
		return Tiger, nil
	case "e", "tie", "x", "empate":
		return Tie, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

// ParseSequence parses a compact history such as "DDTE" or a separated list
// such as "dragon,tiger tie". Oldest outcome first.
var symbols = map[rune]Outcome{'D': Dragon, 'T': Tiger, 'E': Tie}

func ParseSequence(s string) ([]Outcome, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ';'
	})

	var out []Outcome
	for _, f := range fields {
		if o, err := ParseOutcome(f); err == nil {
			out = append(out, o)
			continue
		}
		// Compact form: every rune is one of D, T, E. Aliases are only
		// accepted as whole words so a typo is not read as outcomes.
		for _, r := range f {
			o, ok := symbols[unicode.ToUpper(r)]
			if !ok {
				return nil, fmt.Errorf("%w: %q in %q", ErrInvalidOutcome, r, f)
			}
			out = append(out, o)
		}
	}
	return out, nil
}

func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// FormatHistory renders outcomes with their symbols separated by spaces, in
// the order given.
func FormatHistory(outcomes []Outcome) string {
	parts := make([]string, len(outcomes))
	for i, o := range outcomes {
		parts[i] = o.Symbol()
	}
	return strings.Join(parts, " ")
}
