package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

const redacted = "[redacted]"

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	includeValues bool
}

// NewRenderer creates a renderer. Observed field text is replaced by a
// placeholder unless includeValues is set.
func NewRenderer(includeValues bool) *Renderer {
	return &Renderer{includeValues: includeValues}
}

// MarshalJSON encodes the report, redacting field values as configured
func (r *Renderer) MarshalJSON(report *model.Report) ([]byte, error) {
	out := report
	if !r.includeValues {
		out = redact(report)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderJSON writes the report as JSON to path; "-" writes to stdout
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := r.MarshalJSON(report)
	if err != nil {
		return err
	}
	return writeOutput(path, data)
}

// RenderMarkdown writes the report as Markdown to path; "-" writes to stdout
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeOutput(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes an already rendered LLM summary to path
func (r *Renderer) RenderLLMMarkdown(content string, path string) error {
	return writeOutput(path, []byte(content))
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Form Classification: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source:** %s\n", report.Source)
	fmt.Fprintf(&b, "- **Scanned:** %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 UTC"))
	if report.FetchMeta != nil {
		fmt.Fprintf(&b, "- **HTTP status:** %d\n", report.FetchMeta.StatusCode)
		if report.FetchMeta.FinalURL != "" && report.FetchMeta.FinalURL != report.Subject {
			fmt.Fprintf(&b, "- **Final URL:** %s\n", report.FetchMeta.FinalURL)
		}
	}
	fmt.Fprintf(&b, "- **Origin:** %s", report.Origin.Trust)
	if report.Origin.Origin != "" {
		fmt.Fprintf(&b, " (%s)", report.Origin.Origin)
	}
	if report.Origin.Reason != "" {
		fmt.Fprintf(&b, ": %s", report.Origin.Reason)
	}
	b.WriteString("\n\n")

	b.WriteString("## Fields\n\n")
	fields := report.Score.Ordered(report.Snapshot)
	switch {
	case report.Score.Suppressed:
		b.WriteString("_Form suppressed: not worth autofilling._\n\n")
	case len(fields) == 0:
		b.WriteString("_No fillable fields._\n\n")
	default:
		b.WriteString("| Field | Hint | Score | Value |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "| `%s` | %s | %.1f | %s |\n", f.ID, f.Hint, f.Score, r.value(f.Value))
		}
		b.WriteString("\n")
	}

	if report.Save.Offer {
		b.WriteString("## Save\n\n")
		fmt.Fprintf(&b, "Submitting this form offers to save: %s\n\n", strings.Join(report.Save.Types, ", "))
	}

	if len(report.Score.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Score.Signals {
			if s.Field != "" {
				fmt.Fprintf(&b, "- **%s** `%s`: %s\n", s.Type, s.Field, s.Description)
			} else {
				fmt.Fprintf(&b, "- **%s**: %s\n", s.Type, s.Description)
			}
		}
		b.WriteString("\n")
	}

	if report.Snapshot != nil && len(report.Snapshot.Fields) > 0 {
		b.WriteString("## Observations\n\n")
		for _, obs := range report.Snapshot.Fields {
			fmt.Fprintf(&b, "### `%s`\n\n", obs.ID)
			for _, g := range obs.Guesses {
				fmt.Fprintf(&b, "- %s (%s", g.Hint, g.Accuracy)
				if g.Source != "" {
					fmt.Fprintf(&b, ", %s", g.Source)
				}
				b.WriteString(")")
				if g.Reason != "" {
					fmt.Fprintf(&b, " %s", g.Reason)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("---\n\n")
		b.WriteString("_An LLM summary was generated separately. It does not affect this classification._\n")
	}

	return b.String()
}

// RenderSummary prints a short human-readable summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) error {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "  %s\n", report.Subject)
	b.WriteString("═══════════════════════════════════════════════════════════\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Origin:     %s\n", report.Origin.Trust)

	fields := report.Score.Ordered(report.Snapshot)
	switch {
	case report.Score.Suppressed:
		b.WriteString("  Fields:     suppressed\n")
	default:
		fmt.Fprintf(&b, "  Fields:     %d classified\n", len(fields))
		for _, f := range fields {
			fmt.Fprintf(&b, "    %-24s %s\n", f.ID, f.Hint)
		}
	}
	if report.Save.Offer {
		fmt.Fprintf(&b, "  Save:       %s\n", strings.Join(report.Save.Types, ", "))
	}
	if n := len(report.Score.Signals); n > 0 {
		fmt.Fprintf(&b, "  Signals:    %d\n", n)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) value(v string) string {
	if v == "" {
		return ""
	}
	if !r.includeValues {
		return redacted
	}
	return strings.ReplaceAll(v, "|", "\\|")
}

// redact returns a copy of report with every observed value replaced
func redact(report *model.Report) *model.Report {
	out := *report

	if report.Snapshot != nil {
		snapshot := *report.Snapshot
		snapshot.Fields = make([]model.FieldObservation, len(report.Snapshot.Fields))
		for i, obs := range report.Snapshot.Fields {
			obs.Value = mask(obs.Value)
			guesses := make([]model.Guess, len(obs.Guesses))
			for j, g := range obs.Guesses {
				g.Value = mask(g.Value)
				guesses[j] = g
			}
			obs.Guesses = guesses
			snapshot.Fields[i] = obs
		}
		out.Snapshot = &snapshot
	}

	if report.Score.Fields != nil {
		out.Score.Fields = make(map[model.FieldID]model.ClassifiedField, len(report.Score.Fields))
		for id, f := range report.Score.Fields {
			f.Value = mask(f.Value)
			out.Score.Fields[id] = f
		}
	}

	return &out
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return redacted
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
