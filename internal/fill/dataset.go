package fill

import (
	"github.com/ppiankov/formsense/internal/model"
)

// Dataset is one credential's values mapped onto the form's fields
type Dataset struct {
	CredentialID string                   `json:"credential_id"`
	Title        string                   `json:"title"`
	Subtitle     string                   `json:"subtitle,omitempty"`
	Values       map[model.FieldID]string `json:"values"`
}

// BuildDatasets fills fields from each credential in order. Credentials
// that provide no value for any field produce no dataset.
func BuildDatasets(credentials []Credential, fields []model.ClassifiedField, code CodeFunc) []Dataset {
	hints := make([]model.Hint, 0, len(fields))
	for _, f := range fields {
		hints = append(hints, f.Hint)
	}

	var out []Dataset
	for i := range credentials {
		c := &credentials[i]
		values := c.Values(hints, code)

		ds := Dataset{
			CredentialID: c.ID,
			Title:        c.Name,
			Subtitle:     subtitle(c),
			Values:       make(map[model.FieldID]string),
		}
		for _, f := range fields {
			if v, ok := values[f.Hint]; ok {
				ds.Values[f.ID] = v
			}
		}
		if len(ds.Values) == 0 {
			continue
		}
		out = append(out, ds)
	}
	return out
}

func subtitle(c *Credential) string {
	switch {
	case c.Login != nil && c.Login.Username != "":
		return c.Login.Username
	case c.Card != nil && c.Card.Number != "":
		return maskCardNumber(c.Card.Number)
	case len(c.URIs) > 0:
		return c.URIs[0]
	}
	return ""
}

// maskCardNumber keeps the last four digits
func maskCardNumber(number string) string {
	r := []rune(number)
	if len(r) <= 4 {
		return number
	}
	return "*" + string(r[len(r)-4:])
}
