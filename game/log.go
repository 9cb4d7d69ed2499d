package game

import "time"

// Entry is one recorded outcome.
type Entry struct {
	Time    time.Time `json:"time"`
	Outcome Outcome   `json:"outcome"`
}

// TimeOfDay is the display form of the entry time.
func (e Entry) TimeOfDay() string {
	return e.Time.Format("15:04:05")
}

// Clock returns the current time.
type Clock func() time.Time

// Log is an append/pop only sequence of outcomes, oldest first. It is not
// bounded. Entry times are strictly increasing so a time identifies exactly
// one entry.
type Log struct {
	entries []Entry
	now     Clock
}

type LogOption func(*Log)

// WithClock replaces time.Now as the source of entry timestamps.
func WithClock(c Clock) LogOption {
	return func(l *Log) { l.now = c }
}

// NewLog returns a log seeded with entries (copied).
func NewLog(entries []Entry, opts ...LogOption) *Log {
	l := &Log{
		entries: append([]Entry(nil), entries...),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records o and returns the new entry.
func (l *Log) Append(o Outcome) Entry {
	return l.Push(Entry{Time: l.Stamp(), Outcome: o})
}

// Stamp returns the time the next entry would get: now, or just after the
// newest entry if the clock has not moved past it.
func (l *Log) Stamp() time.Time {
	return l.after(l.now())
}

// Push appends e, moving its time forward if needed to keep times strictly
// increasing.
func (l *Log) Push(e Entry) Entry {
	e.Time = l.after(e.Time)
	l.entries = append(l.entries, e)
	return e
}

// after also strips the monotonic reading so ordering is by wall time, the
// same ordering a reloaded log is checked against.
func (l *Log) after(ts time.Time) time.Time {
	ts = ts.Round(0)
	if n := len(l.entries); n > 0 {
		if last := l.entries[n-1].Time; !ts.After(last) {
			return last.Add(time.Nanosecond)
		}
	}
	return ts
}

// PopLast removes and returns the newest entry. It reports false when the
// log is empty.
func (l *Log) PopLast() (Entry, bool) {
	n := len(l.entries)
	if n == 0 {
		return Entry{}, false
	}
	e := l.entries[n-1]
	l.entries = l.entries[:n-1]
	return e, true
}

func (l *Log) Clear() {
	l.entries = nil
}

func (l *Log) Len() int {
	return len(l.entries)
}

// Outcomes returns the outcomes oldest first.
func (l *Log) Outcomes() []Outcome {
	out := make([]Outcome, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Outcome
	}
	return out
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Last returns up to n outcomes, newest first. n <= 0 means all.
func (l *Log) Last(n int) []Outcome {
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Outcome, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i].Outcome)
	}
	return out
}
