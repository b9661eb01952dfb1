package fill

import (
	"github.com/ppiankov/formsense/internal/model"
)

// saveTypes are the hints whose values end up in a saved login, in the
// order they are reported
var saveTypes = []model.Hint{model.HintPassword, model.HintEmail, model.HintUsername}

// IsLoginShaped reports whether the hints contain both an identity and a
// secret of a login
func IsLoginShaped(hints map[model.Hint]bool) bool {
	var identity, secret bool
	for h := range hints {
		if h.IsLoginIdentity() {
			identity = true
		}
		if h.IsLoginSecret() {
			secret = true
		}
	}
	return identity && secret
}

// DetectSave decides whether the submitted form should be offered for
// saving. Only login-shaped forms qualify; one field per saved type is
// reported, the first in snapshot order.
func DetectSave(snapshot *model.FormSnapshot, result model.Score) model.SaveVerdict {
	var verdict model.SaveVerdict
	if result.Suppressed || !IsLoginShaped(result.Hints()) {
		return verdict
	}

	first := make(map[model.Hint]model.FieldID)
	for _, f := range result.Ordered(snapshot) {
		if _, ok := first[f.Hint]; !ok {
			first[f.Hint] = f.ID
		}
	}

	for _, h := range saveTypes {
		id, ok := first[h]
		if !ok {
			continue
		}
		verdict.Types = append(verdict.Types, string(h))
		verdict.FieldIDs = append(verdict.FieldIDs, id)
	}
	verdict.Offer = len(verdict.FieldIDs) > 0
	return verdict
}
