package fill

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/ppiankov/formsense/internal/model"
)

const androidAppScheme = "androidapp://"

// Target describes what is being filled
type Target struct {
	ApplicationID string
	WebDomain     string
	Hints         []model.Hint
}

// TargetFor builds the target of a classified snapshot
func TargetFor(snapshot *model.FormSnapshot, result model.Score) Target {
	t := Target{
		ApplicationID: snapshot.ApplicationID,
		WebDomain:     snapshot.WebDomain,
	}
	for _, f := range result.Ordered(snapshot) {
		t.Hints = append(t.Hints, f.Hint)
	}
	return t
}

// Match strength of a credential URI against a target
const (
	matchNone = iota
	matchRegistrableDomain
	matchHost
	matchApplication
)

// Suggest returns the credentials that fit target, strongest match first,
// at most limit of them (no limit when limit <= 0). Deleted credentials and
// credentials without data for the form's kind are skipped.
func Suggest(credentials []Credential, target Target, limit int) []Credential {
	type ranked struct {
		credential Credential
		strength   int
	}

	wantLogin, wantCard := wants(target.Hints)

	var matches []ranked
	for _, c := range credentials {
		if c.Deleted {
			continue
		}
		if wantLogin && !wantCard && c.Login == nil {
			continue
		}
		if wantCard && !wantLogin && c.Card == nil {
			continue
		}
		if s := strength(c, target); s > matchNone {
			matches = append(matches, ranked{credential: c, strength: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].strength > matches[j].strength
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Credential, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.credential)
	}
	return out
}

// wants reports whether the hints ask for login or card data
func wants(hints []model.Hint) (login, card bool) {
	for _, h := range hints {
		switch {
		case h.IsLoginIdentity(), h.IsLoginSecret(), h == model.HintAppOTP:
			login = true
		case h.IsCardIdentity(), h == model.HintCardSecurityCode:
			card = true
		}
	}
	return login, card
}

// strength returns the best match of any of c's URIs
func strength(c Credential, target Target) int {
	best := matchNone
	targetHost := strings.ToLower(target.WebDomain)
	targetSite := registrableDomain(targetHost)

	for _, raw := range c.URIs {
		raw = strings.TrimSpace(raw)
		if strings.HasPrefix(strings.ToLower(raw), androidAppScheme) {
			pkg := raw[len(androidAppScheme):]
			if target.ApplicationID != "" && pkg == target.ApplicationID {
				best = max(best, matchApplication)
			}
			continue
		}

		host := hostOf(raw)
		if host == "" || targetHost == "" {
			continue
		}
		switch {
		case host == targetHost:
			best = max(best, matchHost)
		case targetSite != "" && registrableDomain(host) == targetSite:
			best = max(best, matchRegistrableDomain)
		}
	}
	return best
}

// hostOf extracts the lowercased host of a stored URI. Bare hosts are
// accepted.
func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// registrableDomain returns the eTLD+1 of host, or "" for hosts that have
// none (public suffixes, IP addresses, single labels)
func registrableDomain(host string) string {
	if host == "" {
		return ""
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return site
}
