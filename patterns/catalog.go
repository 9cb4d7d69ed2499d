package patterns

import "github.com/rustyeddy/tigre/game"

// Stable template ids. They identify which template fired and carry no
// meaning beyond that.
const (
	IDStaircase     = 1
	IDFourStreak    = 2
	IDDoublePair    = 3
	IDZigZag        = 4
	IDMirror        = 5
	IDBlockRepeat   = 6
	IDDominance     = 7
	IDTieSandwich   = 8
	IDTieAnchor     = 9
	IDDelayedAnchor = 10
	IDAlternation   = 11
	IDCamouflage    = 99
)

const (
	DefaultDominanceWindow    = 10
	DefaultDominanceThreshold = 7

	// camouflageSpan matches the history cap of the single-call analyzer.
	camouflageSpan = 20
)

// Catalog returns the canonical templates in priority order. Longer and more
// specific templates come first.
func Catalog(dominanceWindow, dominanceThreshold int) []Template {
	return []Template{
		Literal(IDStaircase, "Staircase", "abbaaabbbb", 'b',
			"Runs of one, two, three and four: follow the growing side until the fourth win."),
		Literal(IDFourStreak, "Four Streak", "aaaa", 'a',
			"Four in a row on one side: bet on continuation, carefully."),
		Literal(IDDoublePair, "Double Pair", "aabb", 'a',
			"Pairs alternating: the next pair starts on the other side."),
		Literal(IDZigZag, "Zig-Zag", "abab", 'b',
			"Four alternations: expect the break, bet the last winner repeats."),
		Literal(IDMirror, "Mirror", "abba", 'b',
			"The sequence mirrors itself: bet against the mirror."),
		blockRepeat(),
		dominance(dominanceWindow, dominanceThreshold),
		Literal(IDTieSandwich, "Tie Sandwich", "aaTaa", 'a',
			"A tie inside a streak does not break it: follow the streak."),
		Literal(IDTieAnchor, "Tie Anchor", "aT", 'a',
			"A tie reset the reading: the previous side tends to repeat."),
		Literal(IDDelayedAnchor, "Delayed Anchor", "aTb", 'a',
			"A tie inside an alternation: bet the side before the tie, with caution."),
		alternation(),
	}
}

// blockRepeat fires when the last three outcomes repeat the three before
// them, e.g. D D T D D T, and predicts the block starting again.
func blockRepeat() Template {
	return Template{
		ID:     IDBlockRepeat,
		Name:   "Block Repeat",
		Advice: "Short blocks repeat: bet on the latest result of the block, invert after the third block.",
		Length: 6,
		Match: func(w []game.Outcome) bool {
			uniform := true
			for i := 0; i < 3; i++ {
				if !w[i].IsSide() || w[i] != w[i+3] {
					return false
				}
				if w[i] != w[0] {
					uniform = false
				}
			}
			return !uniform
		},
		Predict: func(w []game.Outcome) game.Outcome {
			return w[len(w)-1]
		},
	}
}

// dominance fires when one side won at least threshold of the last window
// outcomes.
func dominance(window, threshold int) Template {
	leader := func(w []game.Outcome) (game.Outcome, bool) {
		var dragon, tiger int
		for _, o := range w {
			switch o {
			case game.Dragon:
				dragon++
			case game.Tiger:
				tiger++
			}
		}
		switch {
		case dragon >= threshold:
			return game.Dragon, true
		case tiger >= threshold:
			return game.Tiger, true
		}
		return game.Unknown, false
	}

	return Template{
		ID:     IDDominance,
		Name:   "Dominance",
		Advice: "One side dominates the recent rounds: follow the trend.",
		Length: window,
		Match: func(w []game.Outcome) bool {
			_, ok := leader(w)
			return ok
		},
		Predict: func(w []game.Outcome) game.Outcome {
			side, _ := leader(w)
			return side
		},
	}
}

// alternation is the generic low priority template: the last two outcomes
// differ and the newest is predicted to repeat.
func alternation() Template {
	return Template{
		ID:     IDAlternation,
		Name:   "Alternation",
		Advice: "The last two rounds differ: bet the last winner repeats.",
		Length: 2,
		Match: func(w []game.Outcome) bool {
			return w[0] != w[1]
		},
		Predict: func(w []game.Outcome) game.Outcome {
			return w[1]
		},
	}
}

// camouflage is the optional catch-all. When both sides appear in the recent
// history it bets the side that is behind, Tiger on a tie in counts.
func camouflage() Template {
	counts := func(w []game.Outcome) (dragon, tiger int) {
		for _, o := range w {
			switch o {
			case game.Dragon:
				dragon++
			case game.Tiger:
				tiger++
			}
		}
		return
	}

	return Template{
		ID:     IDCamouflage,
		Name:   "Camouflage",
		Advice: "No clear pattern: bet lightly on the side that is slightly behind.",
		Length: 2,
		Span:   camouflageSpan,
		Match: func(w []game.Outcome) bool {
			d, t := counts(w)
			return d > 0 && t > 0
		},
		Predict: func(w []game.Outcome) game.Outcome {
			d, t := counts(w)
			if d < t {
				return game.Dragon
			}
			return game.Tiger
		},
	}
}
