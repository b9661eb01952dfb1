// Package infer turns a single view node into autofill guesses.
//
// Each strategy looks at one aspect of the node and emits zero or more
// (hint, accuracy, source) guesses. Outputs are concatenated in strategy
// order and never merged; conflicts are settled later by the scorer.
package infer

import (
	"strings"

	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/structure"
	"github.com/ppiankov/formsense/internal/vocab"
)

// Engine runs the inference strategies against a vocabulary table
type Engine struct {
	table *vocab.Table
}

// NewEngine creates an engine. A nil table selects the built-in vocabulary.
func NewEngine(table *vocab.Table) *Engine {
	if table == nil {
		table = vocab.DefaultTable()
	}
	return &Engine{table: table}
}

// Infer returns every guess for node. The node's text is attached to each
// guess as its observed value.
func (e *Engine) Infer(node *structure.ViewNode) []model.Guess {
	if node == nil {
		return nil
	}

	var out []model.Guess
	out = append(out, e.byAutofillHints(node)...)
	out = append(out, e.byMarkup(node)...)
	out = append(out, e.byInput(node, out)...)
	out = append(out, e.byLabel(node.Hint, model.SourceLabel)...)

	for i := range out {
		out[i].Value = node.Text
	}
	return out
}

// byAutofillHints matches the platform-supplied hint strings
func (e *Engine) byAutofillHints(node *structure.ViewNode) []model.Guess {
	var out []model.Guess
	for _, h := range node.AutofillHints {
		out = append(out, e.fromMatches(h, model.SourceAutofillHint)...)
	}
	return out
}

// byMarkup reads the attributes of HTML input elements. Unknown attributes
// are ignored.
func (e *Engine) byMarkup(node *structure.ViewNode) []model.Guess {
	if !strings.EqualFold(node.HTMLTag, "input") {
		return nil
	}

	var out []model.Guess
	for _, a := range node.HTMLAttributes {
		switch strings.ToLower(a.Name) {
		case "autocomplete", "ua-autofill-hints":
			for _, token := range tokens(a.Value) {
				out = append(out, e.fromMatches(token, model.SourceAutocomplete)...)
			}
		case "type":
			out = append(out, byHTMLType(a.Value)...)
		case "name":
			out = append(out, byIdentifier(a.Value, model.SourceHTMLName)...)
		case "id":
			out = append(out, byIdentifier(a.Value, model.SourceHTMLID)...)
		case "label":
			out = append(out, e.byLabel(a.Value, model.SourceLabel)...)
		}
	}
	return out
}

// byLabel matches human label text against the multilingual word lists
func (e *Engine) byLabel(text string, source model.Source) []model.Guess {
	hint, ok := e.table.MatchLabel(text)
	if !ok {
		return nil
	}
	return []model.Guess{{
		Hint:     hint,
		Accuracy: model.AccuracyMedium,
		Source:   source,
		Reason:   "label:" + strings.ToLower(strings.TrimSpace(text)),
	}}
}

func (e *Engine) fromMatches(value string, source model.Source) []model.Guess {
	matches := e.table.Match(value)
	if len(matches) == 0 {
		return nil
	}
	out := make([]model.Guess, 0, len(matches))
	for _, m := range matches {
		out = append(out, model.Guess{
			Hint:     m.Hint,
			Accuracy: m.Accuracy,
			Source:   source,
			Reason:   string(source) + ":" + strings.ToLower(m.Rule),
		})
	}
	return out
}

// tokens splits an autocomplete attribute into its space or comma
// separated tokens
func tokens(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
