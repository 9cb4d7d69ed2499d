package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/ledger"
)

// FormatSignalOrg renders a signal as an Org-mode block. Structured facts go
// in the PROPERTIES drawer so they stay searchable.
func FormatSignalOrg(s ledger.Signal) string {
	heading := fmt.Sprintf("** Signal: %s -> %s (%s)", s.Pattern, s.Prediction, shortID(s.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", s.ID))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", s.Time.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":PATTERN_ID: %d\n", s.PatternID))
	b.WriteString(fmt.Sprintf(":PATTERN: %s\n", s.Pattern))
	b.WriteString(fmt.Sprintf(":PREDICTION: %s\n", s.Prediction))
	b.WriteString(fmt.Sprintf(":RESOLUTION: %s\n", s.Resolution))
	if !s.ResolvedAt.IsZero() {
		b.WriteString(fmt.Sprintf(":RESOLVED_AT: %s\n", s.ResolvedAt.UTC().Format(time.RFC3339)))
	}
	b.WriteString(":END:\n")

	return b.String()
}

// FormatSignalsOrg renders multiple signals separated by blank lines.
func FormatSignalsOrg(signals []ledger.Signal) string {
	var b strings.Builder
	for i, s := range signals {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatSignalOrg(s))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

// sessionView is what the session template reads.
type sessionView struct {
	Generated time.Time
	Outcomes  int
	Counters  ledger.Counters
	Accuracy  float64
	History   string
	Patterns  []ledger.PatternStats
}

var sessionOrgFuncs = template.FuncMap{
	"pct": func(c ledger.Counters) string { return fmt.Sprintf("%.1f", c.Accuracy()) },
}

const sessionOrgTemplate = `* SESSION {{.Generated.Format "2006-01-02 15:04"}}
:PROPERTIES:
:OUTCOMES:  {{.Outcomes}}
:SIGNALS:   {{.Counters.Total}}
:HITS:      {{.Counters.Hits}}
:MISSES:    {{.Counters.Misses}}
:ACCURACY:  {{printf "%.1f" .Accuracy}}
:END:

** History (newest first)
{{if .History}}{{.History}}{{else}}(empty){{end}}

** Patterns
| Id | Pattern | Hits | Misses | Pending | Accuracy % |
|----+---------+------+--------+---------+------------|
{{- range .Patterns }}
| {{.PatternID}} | {{.Pattern}} | {{.Hits}} | {{.Misses}} | {{.Pending}} | {{pct .Counters}} |
{{- end }}
`

var sessionOrg = template.Must(template.New("session").Funcs(sessionOrgFuncs).Parse(sessionOrgTemplate))

// FormatSessionOrg renders a summary of the whole state: counters, history and
// per-pattern scores.
func FormatSessionOrg(s State, generated time.Time) (string, error) {
	l := ledger.New(s.Signals, s.Counters)

	outcomes := make([]game.Outcome, 0, len(s.Log))
	for i := len(s.Log) - 1; i >= 0; i-- {
		outcomes = append(outcomes, s.Log[i].Outcome)
	}

	v := sessionView{
		Generated: generated,
		Outcomes:  len(s.Log),
		Counters:  s.Counters,
		Accuracy:  s.Counters.Accuracy(),
		History:   game.FormatHistory(outcomes),
		Patterns:  l.PatternStats(),
	}

	buf := new(bytes.Buffer)
	if err := sessionOrg.Execute(buf, v); err != nil {
		return "", fmt.Errorf("render session: %w", err)
	}
	return buf.String(), nil
}
