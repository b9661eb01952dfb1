// Package origin decides whether a form's origin may be autofilled at all.
package origin

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

// Policy classifies form origins as trusted, insecure or blocked
type Policy struct {
	config       *model.OriginConfig
	blockedApps  map[string]bool
	blockedHosts []string
	pathPatterns []*compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	reason  string
}

// NewPolicy creates a policy; nil selects the default origin config. A path
// pattern that fails to compile is an error.
func NewPolicy(config *model.OriginConfig) (*Policy, error) {
	if config == nil {
		config = &model.DefaultConfig().Origin
	}

	p := &Policy{
		config:      config,
		blockedApps: make(map[string]bool),
	}

	for _, app := range config.BlockedApplications {
		p.blockedApps[strings.TrimSpace(app)] = true
	}

	for _, domain := range config.BlockedDomains {
		domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
		if domain != "" {
			p.blockedHosts = append(p.blockedHosts, domain)
		}
	}

	for i, pp := range config.PathPatterns {
		re, err := regexp.Compile(pp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("path pattern %d %q: %w", i, pp.Pattern, err)
		}
		p.pathPatterns = append(p.pathPatterns, &compiledPattern{
			pattern: re,
			reason:  pp.Reason,
		})
	}

	return p, nil
}

// DefaultPolicy is the policy for the default origin config
func DefaultPolicy() *Policy {
	p, err := NewPolicy(nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Classify returns the verdict for snapshot. pageURL, when known, supplies
// the path for path patterns; otherwise the snapshot's own origin is used.
func (p *Policy) Classify(snapshot *model.FormSnapshot, pageURL string) model.OriginVerdict {
	verdict := model.OriginVerdict{Trust: model.OriginTrusted}
	if snapshot == nil {
		return verdict
	}
	verdict.Origin = snapshot.Origin()

	// Check application ids
	if snapshot.ApplicationID != "" && p.blockedApps[snapshot.ApplicationID] {
		verdict.Trust = model.OriginBlocked
		verdict.Reason = "application " + snapshot.ApplicationID + " is blocked"
		return verdict
	}

	raw := pageURL
	if raw == "" {
		raw = verdict.Origin
	}
	if raw == "" {
		return verdict
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return verdict
	}
	host := strings.ToLower(parsed.Hostname())

	// Check blocked domains, including subdomains
	for _, domain := range p.blockedHosts {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			verdict.Trust = model.OriginBlocked
			verdict.Reason = "domain " + domain + " is blocked"
			return verdict
		}
	}

	// Check path patterns
	for _, cp := range p.pathPatterns {
		if cp.pattern.MatchString(parsed.Path) {
			verdict.Trust = model.OriginBlocked
			verdict.Reason = cp.reason
			if verdict.Reason == "" {
				verdict.Reason = "path matches " + cp.pattern.String()
			}
			return verdict
		}
	}

	scheme := strings.ToLower(snapshot.WebScheme)
	if scheme == "" {
		scheme = strings.ToLower(parsed.Scheme)
	}
	if p.config.FlagInsecure && scheme == "http" {
		verdict.Trust = model.OriginInsecure
		verdict.Reason = "form is served over plain http"
	}

	return verdict
}
