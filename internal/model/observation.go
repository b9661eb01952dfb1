package model

// FieldID identifies a field within one form tree
type FieldID string

// Source records which inference strategy produced a guess. It is kept for
// diagnostics only and never influences ranking.
type Source string

const (
	SourceAutofillHint Source = "autofill-hint"
	SourceAutocomplete Source = "autocomplete"
	SourceHTMLType     Source = "type"
	SourceHTMLName     Source = "name"
	SourceHTMLID       Source = "id"
	SourceLabel        Source = "label"
	SourceInputType    Source = "input-type"
	SourceImportance   Source = "importance"
	SourceResourceID   Source = "resource-id"
)

// Guess is one strategy's opinion about a field
type Guess struct {
	Hint     Hint     `json:"hint" yaml:"hint"`
	Accuracy Accuracy `json:"accuracy" yaml:"accuracy"`
	Source   Source   `json:"source,omitempty" yaml:"source,omitempty"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`   // Observed text, if any
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"` // e.g. "label:e-mail"
}

// FieldObservation collects every guess made about one field
type FieldObservation struct {
	ID      FieldID `json:"id" yaml:"id"`
	Guesses []Guess `json:"guesses" yaml:"guesses"`
	Value   string  `json:"value,omitempty" yaml:"value,omitempty"`
}

// HasHint reports whether any guess names h
func (o FieldObservation) HasHint(h Hint) bool {
	for _, g := range o.Guesses {
		if g.Hint == h {
			return true
		}
	}
	return false
}

// FormSnapshot is the flattened result of parsing one form or screen
type FormSnapshot struct {
	ApplicationID string             `json:"application_id,omitempty" yaml:"application_id,omitempty"`
	WebScheme     string             `json:"web_scheme,omitempty" yaml:"web_scheme,omitempty"`
	WebDomain     string             `json:"web_domain,omitempty" yaml:"web_domain,omitempty"`
	WebView       bool               `json:"web_view" yaml:"web_view"`
	Fields        []FieldObservation `json:"fields" yaml:"fields"`
}

// Origin returns scheme://domain, or an empty string when no web domain was seen
func (s *FormSnapshot) Origin() string {
	if s == nil || s.WebDomain == "" {
		return ""
	}
	scheme := s.WebScheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + s.WebDomain
}

// Guesses returns every guess of every field in snapshot order
func (s *FormSnapshot) Guesses() []Guess {
	if s == nil {
		return nil
	}
	var out []Guess
	for _, f := range s.Fields {
		out = append(out, f.Guesses...)
	}
	return out
}
