package patterns

import "github.com/rustyeddy/tigre/game"

// MinSequence is the shortest sequence the matcher evaluates.
const MinSequence = 2

// Match is the template that fired and what it predicts.
type Match struct {
	PatternID  int
	Name       string
	Advice     string
	Prediction game.Outcome
}

// Matcher evaluates a fixed catalog in priority order. It holds no state
// besides the catalog and is safe to share.
type Matcher struct {
	templates []Template
}

type settings struct {
	fallback           bool
	dominanceWindow    int
	dominanceThreshold int
}

type Option func(*settings)

// WithFallback appends the catch-all Camouflage template. Off by default:
// when nothing matches the matcher returns no prediction.
func WithFallback(on bool) Option {
	return func(s *settings) { s.fallback = on }
}

// WithDominance sets how many trailing outcomes the Dominance template counts
// and how many wins make a side dominant.
func WithDominance(window, threshold int) Option {
	return func(s *settings) {
		if window > 0 {
			s.dominanceWindow = window
		}
		if threshold > 0 {
			s.dominanceThreshold = threshold
		}
	}
}

func NewMatcher(opts ...Option) *Matcher {
	s := settings{
		dominanceWindow:    DefaultDominanceWindow,
		dominanceThreshold: DefaultDominanceThreshold,
	}
	for _, opt := range opts {
		opt(&s)
	}

	templates := Catalog(s.dominanceWindow, s.dominanceThreshold)
	if s.fallback {
		templates = append(templates, camouflage())
	}
	return &Matcher{templates: templates}
}

// NewMatcherWith builds a matcher over a custom catalog.
func NewMatcherWith(templates []Template) *Matcher {
	return &Matcher{templates: append([]Template(nil), templates...)}
}

// Templates returns the catalog in priority order.
func (m *Matcher) Templates() []Template {
	return append([]Template(nil), m.templates...)
}

// Evaluate returns the first template in priority order that matches the tail
// of seq (oldest first). Sequences shorter than MinSequence never match.
func (m *Matcher) Evaluate(seq []game.Outcome) (Match, bool) {
	if len(seq) < MinSequence {
		return Match{}, false
	}
	for _, t := range m.templates {
		if match, ok := try(t, seq); ok {
			return match, true
		}
	}
	return Match{}, false
}

// Candidates returns every template that matches seq, in priority order.
// Evaluate always returns the first of these.
func (m *Matcher) Candidates(seq []game.Outcome) []Match {
	if len(seq) < MinSequence {
		return nil
	}
	var out []Match
	for _, t := range m.templates {
		if match, ok := try(t, seq); ok {
			out = append(out, match)
		}
	}
	return out
}

func try(t Template, seq []game.Outcome) (Match, bool) {
	w, ok := t.window(seq)
	if !ok || !t.Match(w) {
		return Match{}, false
	}
	return Match{
		PatternID:  t.ID,
		Name:       t.Name,
		Advice:     t.Advice,
		Prediction: t.Predict(w),
	}, true
}
