package fill

import (
	"regexp"

	"github.com/ppiankov/formsense/internal/model"
)

var phoneNumberPattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{4,}[0-9]$`)

// fallbacks lists the hints tried, in order, when a credential has no
// value for a hint of its own
var fallbacks = map[model.Hint][]model.Hint{
	model.HintNewUsername:     {model.HintUsername},
	model.HintNewPassword:     {model.HintPassword},
	model.HintPersonNameGiven: {model.HintPersonName},
}

// CodeFunc generates a one-time code from a stored TOTP secret
type CodeFunc func(secret string) (string, error)

// Value returns the credential's value for h, or "" when it has none
func (c *Credential) Value(h model.Hint, code CodeFunc) string {
	login, card, identity := c.Login, c.Card, c.Identity
	if login == nil {
		login = &Login{}
	}
	if card == nil {
		card = &Card{}
	}
	if identity == nil {
		identity = &Identity{}
	}

	switch h {
	case model.HintUsername, model.HintEmail:
		return login.Username
	case model.HintPassword:
		return login.Password
	case model.HintAppOTP:
		if login.TOTP == "" || code == nil {
			return ""
		}
		otp, err := code(login.TOTP)
		if err != nil {
			return ""
		}
		return otp
	case model.HintPhoneNumber:
		if identity.Phone != "" {
			return identity.Phone
		}
		if phoneNumberPattern.MatchString(login.Username) {
			return login.Username
		}
		return ""
	case model.HintPhoneCountryCode:
		return identity.Phone
	case model.HintCardNumber:
		return card.Number
	case model.HintCardSecurityCode:
		return card.Code
	case model.HintCardExpirationMonth:
		return card.ExpMonth
	case model.HintCardExpirationYear:
		return card.ExpYear
	case model.HintCardExpirationDate:
		if card.ExpMonth == "" || card.ExpYear == "" {
			return ""
		}
		year := card.ExpYear
		if len(year) == 4 {
			year = year[2:]
		}
		month := card.ExpMonth
		if len(month) == 1 {
			month = "0" + month
		}
		return month + "/" + year
	case model.HintPostalCode:
		return identity.PostalCode
	case model.HintPostalAddressCountry:
		return identity.Country
	case model.HintPostalAddressStreet:
		return identity.Address2
	case model.HintPostalAddressAptNumber:
		return identity.Address1
	case model.HintPersonName:
		return identity.FirstName
	case model.HintPersonNameFamily:
		return identity.LastName
	case model.HintPersonNameMiddle:
		return identity.MiddleName
	case model.HintPersonNameMiddleInitial:
		if identity.MiddleName == "" {
			return ""
		}
		return string([]rune(identity.MiddleName)[:1])
	}
	return ""
}

// Values resolves every hint against the credential. Hints without a value
// of their own try their fallbacks one step at a time, round-robin across
// all hints, until each hint is resolved or out of candidates.
func (c *Credential) Values(hints []model.Hint, code CodeFunc) map[model.Hint]string {
	type pending struct {
		hint     model.Hint
		variants []model.Hint
	}

	queue := make([]*pending, 0, len(hints))
	seen := make(map[model.Hint]bool, len(hints))
	for _, h := range hints {
		if seen[h] {
			continue
		}
		seen[h] = true
		variants := append([]model.Hint{h}, fallbacks[h]...)
		queue = append(queue, &pending{hint: h, variants: variants})
	}

	out := make(map[model.Hint]string)
	for {
		progressed := false
		for _, p := range queue {
			if len(p.variants) == 0 {
				continue
			}
			variant := p.variants[0]
			p.variants = p.variants[1:]

			if v := c.Value(variant, code); v != "" {
				out[p.hint] = v
				p.variants = nil
				continue
			}
			if len(p.variants) > 0 {
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}
