// Package output renders run summaries for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/termfx/balancedwrap/core"
	"github.com/termfx/balancedwrap/internal/config"
)

// Formatter writes a finished run.
type Formatter interface {
	Format(w io.Writer, summary *core.Summary) error
}

// New returns the formatter for format, one of config.FormatText or
// config.FormatJSON.
func New(format string, colored bool) (Formatter, error) {
	switch format {
	case config.FormatText, "":
		return NewText(colored), nil
	case config.FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Text prints one line per finding in the path:line:col: message layout
// understood by editors, followed by a summary line. Columns are shown
// 1-based there.
type Text struct {
	path    *color.Color
	code    *color.Color
	failed  *color.Color
	skipped *color.Color
	good    *color.Color
}

// NewText creates a text formatter. Colors are forced on or off regardless
// of whether the writer is a terminal.
func NewText(colored bool) *Text {
	t := &Text{
		path:    color.New(color.Bold),
		code:    color.New(color.FgRed, color.Bold),
		failed:  color.New(color.FgRed),
		skipped: color.New(color.FgYellow),
		good:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{t.path, t.code, t.failed, t.skipped, t.good} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Format implements Formatter.
func (t *Text) Format(w io.Writer, summary *core.Summary) error {
	skipped := 0
	for _, file := range summary.Files {
		switch {
		case file.Failed():
			if _, err := fmt.Fprintf(w, "%s: %s %s\n", t.path.Sprint(file.Path), t.failed.Sprint(file.ErrorCode), file.Error); err != nil {
				return err
			}
			continue
		case file.Skipped != "":
			skipped++
			if _, err := fmt.Fprintf(w, "%s: %s\n", t.path.Sprint(file.Path), t.skipped.Sprint("skipped: "+file.Skipped)); err != nil {
				return err
			}
			continue
		}

		for _, d := range file.Diagnostics {
			message := strings.TrimPrefix(d.Message, d.Code+" ")
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n",
				t.path.Sprint(file.Path),
				d.Line,
				d.Column+1,
				t.code.Sprint(d.Code),
				message,
			); err != nil {
				return err
			}
		}
	}

	status := t.good.Sprint("No wrapping problems")
	if summary.Violations > 0 {
		status = t.code.Sprintf("Found %d %s", summary.Violations, plural(summary.Violations, "violation", "violations"))
	}
	_, err := fmt.Fprintf(w, "%s: %d %s checked, %d cached, %d skipped, %d failed\n",
		status,
		summary.Checked,
		plural(summary.Checked, "file", "files"),
		summary.CacheHits,
		skipped,
		summary.Failures,
	)
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// JSON writes a single indented document.
type JSON struct{}

type jsonViolation struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type jsonProblem struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type jsonSummary struct {
	RunID      string `json:"run_id,omitempty"`
	Files      int    `json:"files"`
	Checked    int    `json:"checked"`
	Violations int    `json:"violations"`
	CacheHits  int    `json:"cache_hits"`
	Failures   int    `json:"failures"`
	DurationMS int64  `json:"duration_ms"`
}

type jsonDocument struct {
	Violations []jsonViolation `json:"violations"`
	Errors     []jsonProblem   `json:"errors"`
	Skipped    []jsonProblem   `json:"skipped"`
	Summary    jsonSummary     `json:"summary"`
}

// Format implements Formatter.
func (JSON) Format(w io.Writer, summary *core.Summary) error {
	doc := jsonDocument{
		Violations: []jsonViolation{},
		Errors:     []jsonProblem{},
		Skipped:    []jsonProblem{},
		Summary: jsonSummary{
			RunID:      summary.RunID,
			Files:      len(summary.Files),
			Checked:    summary.Checked,
			Violations: summary.Violations,
			CacheHits:  summary.CacheHits,
			Failures:   summary.Failures,
			DurationMS: summary.Duration.Milliseconds(),
		},
	}
	for _, file := range summary.Files {
		switch {
		case file.Failed():
			doc.Errors = append(doc.Errors, jsonProblem{Path: file.Path, Code: string(file.ErrorCode), Message: file.Error})
		case file.Skipped != "":
			doc.Skipped = append(doc.Skipped, jsonProblem{Path: file.Path, Code: "SKIPPED", Message: file.Skipped})
		}
		for _, d := range file.Diagnostics {
			doc.Violations = append(doc.Violations, jsonViolation{
				Path:    file.Path,
				Line:    d.Line,
				Column:  d.Column,
				Code:    d.Code,
				Message: d.Message,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
