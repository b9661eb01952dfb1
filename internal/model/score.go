package model

import "sort"

// ClassifiedField is the final decision for one field
type ClassifiedField struct {
	ID    FieldID `json:"id"`
	Hint  Hint    `json:"hint"`
	Score float64 `json:"score"`           // Summed accuracy weight of the winning hint
	Value string  `json:"value,omitempty"` // Existing text of the field, if observed
}

// Score is the outcome of classifying one snapshot
type Score struct {
	Fields     map[FieldID]ClassifiedField `json:"fields"`
	Suppressed bool                        `json:"suppressed"` // Whole form judged not worth autofilling
	Signals    []Signal                    `json:"signals,omitempty"`
}

// Signal explains why a field was dropped or the form suppressed
type Signal struct {
	Type        SignalType             `json:"type"`
	Field       FieldID                `json:"field,omitempty"`
	Hint        Hint                   `json:"hint,omitempty"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalFormSuppressed         SignalType = "form_suppressed"          // Sanity filter emptied the form
	SignalForcedOff              SignalType = "forced_off"               // Disabled at the highest accuracy
	SignalRespectedOff           SignalType = "respected_off"            // Disabled and policy respects it
	SignalPasswordSuppressed     SignalType = "password_suppressed"      // Code hint displaced a password guess
	SignalUsernameSuppressed     SignalType = "username_suppressed"      // Card hint displaced a username guess
	SignalNoGuesses              SignalType = "no_guesses"               // Nothing left to rank
	SignalLowConfidenceDuplicate SignalType = "low_confidence_duplicate" // Stronger field elsewhere claims the hint
)

// Hints returns the set of hints present in the classification
func (s Score) Hints() map[Hint]bool {
	out := make(map[Hint]bool, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Hint] = true
	}
	return out
}

// Ordered returns the classified fields in the order they appear in the
// snapshot. Fields unknown to the snapshot are appended sorted by id.
func (s Score) Ordered(snapshot *FormSnapshot) []ClassifiedField {
	out := make([]ClassifiedField, 0, len(s.Fields))
	seen := make(map[FieldID]bool, len(s.Fields))
	if snapshot != nil {
		for _, obs := range snapshot.Fields {
			if f, ok := s.Fields[obs.ID]; ok && !seen[obs.ID] {
				out = append(out, f)
				seen[obs.ID] = true
			}
		}
	}

	var rest []ClassifiedField
	for id, f := range s.Fields {
		if !seen[id] {
			rest = append(rest, f)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })

	return append(out, rest...)
}
