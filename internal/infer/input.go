package infer

import (
	"strings"

	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/structure"
)

// disabled reports nodes that must never be filled: browser URL bars, which
// carry an "url" resource id but are not marked unimportant, and nodes
// explicitly marked not important for autofill.
func disabled(node *structure.ViewNode) (model.Guess, bool) {
	if strings.Contains(strings.ToLower(node.IDEntry), "url") && strings.EqualFold(node.IDType, "id") {
		return model.Guess{
			Hint:     model.HintOff,
			Accuracy: model.AccuracyHighest,
			Source:   model.SourceResourceID,
			Reason:   "resource-id:" + node.IDEntry,
		}, true
	}
	if node.Importance == structure.ImportanceNo {
		return model.Guess{
			Hint:     model.HintOff,
			Accuracy: model.AccuracyHighest,
			Source:   model.SourceImportance,
			Reason:   "importance:no",
		}, true
	}
	return model.Guess{}, false
}

// byInput reads the platform input type. prior holds the guesses other
// strategies already made for the node.
func (e *Engine) byInput(node *structure.ViewNode, prior []model.Guess) []model.Guess {
	if g, ok := disabled(node); ok {
		return []model.Guess{g}
	}

	guess := func(h model.Hint, a model.Accuracy) []model.Guess {
		return []model.Guess{{
			Hint:     h,
			Accuracy: a,
			Source:   model.SourceInputType,
			Reason:   "input-type:" + inputTypeName(node.InputType),
		}}
	}

	it := node.InputType
	switch it.Class() {
	case structure.ClassText:
		switch {
		case it.IsVariation(structure.TextVariationEmailAddress, structure.TextVariationWebEmailAddress):
			return guess(model.HintEmail, model.AccuracyHigh)
		case it.IsVariation(structure.TextVariationPersonName):
			return guess(model.HintPersonName, model.AccuracyLow)
		case it.IsVariation(structure.TextVariationNormal, structure.TextVariationWebEditText):
			return guess(model.HintUsername, model.AccuracyLowest)
		case it.IsVariation(structure.TextVariationVisiblePassword):
			// Visible password inputs double as username boxes on some
			// forms. Never let one claim a second identity slot.
			if hasUsernameClass(prior) {
				return guess(model.HintPassword, model.AccuracyLowest)
			}
			return guess(model.HintUsername, model.AccuracyLowest)
		case it.IsVariation(structure.TextVariationPassword, structure.TextVariationWebPassword):
			return guess(model.HintPassword, model.AccuracyHigh)
		}
	case structure.ClassNumber:
		switch {
		case it.IsVariation(structure.NumberVariationNormal):
			if node.Importance == structure.ImportanceYes {
				return guess(model.HintUsername, model.AccuracyMedium)
			}
			return guess(model.HintUsername, model.AccuracyLow)
		case it.IsVariation(structure.NumberVariationPassword):
			return guess(model.HintPassword, model.AccuracyLow)
		}
	}
	return nil
}

func hasUsernameClass(guesses []model.Guess) bool {
	for _, g := range guesses {
		if g.Hint.IsUsernameClass() {
			return true
		}
	}
	return false
}

func inputTypeName(it structure.InputType) string {
	switch it.Class() {
	case structure.ClassText:
		switch it.Variation() {
		case structure.TextVariationEmailAddress:
			return "text-email"
		case structure.TextVariationWebEmailAddress:
			return "text-web-email"
		case structure.TextVariationPersonName:
			return "text-person-name"
		case structure.TextVariationNormal:
			return "text"
		case structure.TextVariationWebEditText:
			return "text-web-edit"
		case structure.TextVariationVisiblePassword:
			return "text-visible-password"
		case structure.TextVariationPassword:
			return "text-password"
		case structure.TextVariationWebPassword:
			return "text-web-password"
		}
		return "text-other"
	case structure.ClassNumber:
		if it.IsVariation(structure.NumberVariationPassword) {
			return "number-password"
		}
		return "number"
	}
	return "other"
}
