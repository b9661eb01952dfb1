package score

import (
	"fmt"

	"github.com/ppiankov/formsense/internal/model"
)

// Scorer ranks the guesses of a snapshot and picks one hint per field.
// It holds no state and is safe for concurrent use.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// DefaultPolicy returns the built-in classification policy
func DefaultPolicy() model.PolicyConfig {
	return model.DefaultConfig().Policy
}

// field is every guess made for one field id, in encounter order
type field struct {
	id      model.FieldID
	guesses []model.Guess
	value   string
}

// group is the guesses of one field that share a hint
type group struct {
	hint  model.Hint
	score float64
	best  *model.Guess // Highest accuracy guess that carries a value
}

// Calculate classifies snapshot. Fields dropped by policy are absent from
// the result and explained by a signal. An empty or suppressed snapshot
// yields an empty mapping.
func (s *Scorer) Calculate(snapshot *model.FormSnapshot, policy model.PolicyConfig) model.Score {
	result := model.Score{Fields: make(map[model.FieldID]model.ClassifiedField)}
	if snapshot == nil || len(snapshot.Fields) == 0 {
		return result
	}

	fields := groupByField(snapshot.Fields)

	// 1. Whole-form sanity filter
	if signal, ok := sanityCheck(snapshot.Guesses()); !ok {
		result.Suppressed = true
		result.Signals = append(result.Signals, signal)
		return result
	}

	// 2. Per-field aggregation
	for _, f := range fields {
		classified, signals, ok := s.classify(f, fields, policy)
		result.Signals = append(result.Signals, signals...)
		if ok {
			result.Fields[f.id] = classified
		}
	}

	return result
}

// sanityCheck rejects forms that only weakly resemble a login: every guess
// is LOW or weaker (or a disable marker) and the form lacks a plausible
// username together with a plausible password.
func sanityCheck(guesses []model.Guess) (model.Signal, bool) {
	for _, g := range guesses {
		if g.Accuracy > model.AccuracyLow && g.Hint != model.HintOff {
			return model.Signal{}, true
		}
	}

	hasUsername := false
	hasPassword := false
	for _, g := range guesses {
		if g.Accuracy <= model.AccuracyLowest {
			continue
		}
		if g.Hint.IsUsernameClass() {
			hasUsername = true
		}
		if g.Hint == model.HintPassword {
			hasPassword = true
		}
	}
	if hasUsername && hasPassword {
		return model.Signal{}, true
	}

	return model.Signal{
		Type:        model.SignalFormSuppressed,
		Description: "Only low confidence guesses and no username/password pair",
		Data: map[string]interface{}{
			"guesses":      len(guesses),
			"has_username": hasUsername,
			"has_password": hasPassword,
		},
	}, false
}

// classify runs the per-field decision gates
func (s *Scorer) classify(f field, all []field, policy model.PolicyConfig) (model.ClassifiedField, []model.Signal, bool) {
	var signals []model.Signal
	drop := func(t model.SignalType, h model.Hint, desc string, data map[string]interface{}) (model.ClassifiedField, []model.Signal, bool) {
		signals = append(signals, model.Signal{Type: t, Field: f.id, Hint: h, Description: desc, Data: data})
		return model.ClassifiedField{}, signals, false
	}

	// Disabled at the highest accuracy always wins
	for _, g := range f.guesses {
		if g.Hint == model.HintOff && g.Accuracy == model.AccuracyHighest {
			return drop(model.SignalForcedOff, g.Hint, "Autofill disabled at highest accuracy", map[string]interface{}{
				"source": g.Source,
			})
		}
	}

	guesses := f.guesses
	if policy.RespectAutofillOff {
		for _, g := range guesses {
			if g.Hint == model.HintOff {
				return drop(model.SignalRespectedOff, g.Hint, "Autofill disabled by the form", map[string]interface{}{
					"source":   g.Source,
					"accuracy": g.Accuracy.String(),
				})
			}
		}
	} else {
		guesses = without(guesses, func(g model.Guess) bool { return g.Hint == model.HintOff })
	}

	// Masked rendering makes codes look like passwords, and card fields
	// look like free text
	if anyGuess(guesses, func(g model.Guess) bool { return g.Hint.IsOneTimeCode() }) {
		before := len(guesses)
		guesses = without(guesses, func(g model.Guess) bool { return g.Hint == model.HintPassword })
		if removed := before - len(guesses); removed > 0 {
			signals = append(signals, model.Signal{
				Type:        model.SignalPasswordSuppressed,
				Field:       f.id,
				Hint:        model.HintPassword,
				Description: fmt.Sprintf("Dropped %d password guess(es) in favour of a code hint", removed),
				Data:        map[string]interface{}{"removed": removed},
			})
		}
	}
	if anyGuess(guesses, func(g model.Guess) bool { return g.Hint.IsCardIdentity() }) {
		before := len(guesses)
		guesses = without(guesses, func(g model.Guess) bool { return g.Hint == model.HintUsername })
		if removed := before - len(guesses); removed > 0 {
			signals = append(signals, model.Signal{
				Type:        model.SignalUsernameSuppressed,
				Field:       f.id,
				Hint:        model.HintUsername,
				Description: fmt.Sprintf("Dropped %d username guess(es) in favour of a card hint", removed),
				Data:        map[string]interface{}{"removed": removed},
			})
		}
	}

	winner, ok := rank(guesses)
	if !ok {
		return drop(model.SignalNoGuesses, "", "No guesses left to rank", nil)
	}

	// A barely-LOWEST winner yields to a stronger claim elsewhere
	if winner.score <= model.AccuracyLowest.Weight()+policy.LowConfidenceEpsilon {
		if other, found := strongerElsewhere(f.id, winner.hint, all); found {
			return drop(model.SignalLowConfidenceDuplicate, winner.hint, "Hint claimed with more confidence by another field", map[string]interface{}{
				"score": winner.score,
				"other": string(other),
			})
		}
	}

	value := f.value
	if winner.best != nil {
		value = winner.best.Value
	}
	return model.ClassifiedField{
		ID:    f.id,
		Hint:  winner.hint,
		Score: winner.score,
		Value: value,
	}, signals, true
}

// rank sums accuracy weights per hint and returns the best group. Groups
// are kept in first-encounter order so equal scores resolve to the hint
// seen first.
func rank(guesses []model.Guess) (group, bool) {
	var groups []*group
	index := make(map[model.Hint]*group)

	for i := range guesses {
		g := &guesses[i]
		grp, ok := index[g.Hint]
		if !ok {
			grp = &group{hint: g.Hint}
			index[g.Hint] = grp
			groups = append(groups, grp)
		}
		grp.score += g.Accuracy.Weight()
		if g.Value != "" && (grp.best == nil || g.Accuracy > grp.best.Accuracy) {
			grp.best = g
		}
	}

	if len(groups) == 0 {
		return group{}, false
	}
	winner := groups[0]
	for _, grp := range groups[1:] {
		if grp.score > winner.score {
			winner = grp
		}
	}
	return *winner, true
}

// strongerElsewhere finds another field guessing h above LOWEST
func strongerElsewhere(id model.FieldID, h model.Hint, all []field) (model.FieldID, bool) {
	for _, f := range all {
		if f.id == id {
			continue
		}
		for _, g := range f.guesses {
			if g.Hint == h && g.Accuracy > model.AccuracyLowest {
				return f.id, true
			}
		}
	}
	return "", false
}

// groupByField merges observations sharing an id, keeping first-seen order
func groupByField(observations []model.FieldObservation) []field {
	var out []field
	index := make(map[model.FieldID]int)

	for _, obs := range observations {
		i, ok := index[obs.ID]
		if !ok {
			index[obs.ID] = len(out)
			out = append(out, field{id: obs.ID, value: obs.Value})
			i = len(out) - 1
		}
		out[i].guesses = append(out[i].guesses, obs.Guesses...)
		if out[i].value == "" {
			out[i].value = obs.Value
		}
	}
	return out
}

func anyGuess(guesses []model.Guess, pred func(model.Guess) bool) bool {
	for _, g := range guesses {
		if pred(g) {
			return true
		}
	}
	return false
}

func without(guesses []model.Guess, pred func(model.Guess) bool) []model.Guess {
	out := make([]model.Guess, 0, len(guesses))
	for _, g := range guesses {
		if !pred(g) {
			out = append(out, g)
		}
	}
	return out
}
