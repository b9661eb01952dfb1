package infer

import (
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

// byHTMLType reads the type attribute of an input element
func byHTMLType(value string) []model.Guess {
	typ := strings.ToLower(strings.TrimSpace(value))

	var g model.Guess
	switch typ {
	case "tel":
		g = model.Guess{Hint: model.HintPhoneNumber, Accuracy: model.AccuracyMedium}
	case "email":
		g = model.Guess{Hint: model.HintEmail, Accuracy: model.AccuracyMedium}
	case "username":
		g = model.Guess{Hint: model.HintUsername, Accuracy: model.AccuracyMedium}
	case "text":
		g = model.Guess{Hint: model.HintUsername, Accuracy: model.AccuracyLowest}
	case "password":
		g = model.Guess{Hint: model.HintPassword, Accuracy: model.AccuracyHigh}
	case "expdate":
		g = model.Guess{Hint: model.HintCardExpirationDate, Accuracy: model.AccuracyHigh}
	default:
		return nil
	}

	g.Source = model.SourceHTMLType
	g.Reason = "type:" + typ
	return []model.Guess{g}
}

// byIdentifier reads the name or id attribute. Those are chosen by the
// site's developers for their own scripts, so only a few well-known words
// are trusted.
func byIdentifier(value string, source model.Source) []model.Guess {
	id := strings.ToLower(value)

	var g model.Guess
	switch {
	case strings.Contains(id, "email"):
		g = model.Guess{Hint: model.HintEmail, Accuracy: model.AccuracyMedium}
	case strings.Contains(id, "username"):
		g = model.Guess{Hint: model.HintUsername, Accuracy: model.AccuracyMedium}
	case strings.Contains(id, "password"):
		g = model.Guess{Hint: model.HintPassword, Accuracy: model.AccuracyHigh}
	default:
		return nil
	}

	g.Source = source
	g.Reason = string(source) + ":" + id
	return []model.Guess{g}
}
