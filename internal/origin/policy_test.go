package origin

import (
	"strings"
	"testing"

	"github.com/ppiankov/formsense/internal/model"
)

func mustPolicy(t *testing.T, config *model.OriginConfig) *Policy {
	t.Helper()
	policy, err := NewPolicy(config)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	return policy
}

func TestPolicy_Classify(t *testing.T) {
	config := &model.OriginConfig{
		BlockedApplications: []string{"com.example.bank"},
		BlockedDomains:      []string{"intranet.example.com", ".corp.example"},
		PathPatterns: []model.PathPattern{
			{Pattern: `^/admin(/|$)`, Reason: "admin consoles are never filled"},
			{Pattern: `^/settings/`},
		},
		FlagInsecure: true,
	}
	policy := mustPolicy(t, config)

	tests := []struct {
		desc     string
		snapshot *model.FormSnapshot
		pageURL  string
		expected model.OriginTrust
	}{
		{
			desc:     "Native app",
			snapshot: &model.FormSnapshot{ApplicationID: "com.example.mail"},
			expected: model.OriginTrusted,
		},
		{
			desc:     "Blocked application",
			snapshot: &model.FormSnapshot{ApplicationID: "com.example.bank"},
			expected: model.OriginBlocked,
		},
		{
			desc:     "Blocked domain exact match",
			snapshot: &model.FormSnapshot{WebDomain: "intranet.example.com", WebScheme: "https"},
			expected: model.OriginBlocked,
		},
		{
			desc:     "Blocked domain with subdomain",
			snapshot: &model.FormSnapshot{WebDomain: "login.corp.example"},
			expected: model.OriginBlocked,
		},
		{
			desc:     "Lookalike domain is not blocked",
			snapshot: &model.FormSnapshot{WebDomain: "notcorp.example"},
			expected: model.OriginTrusted,
		},
		{
			desc:     "Path pattern",
			snapshot: &model.FormSnapshot{WebDomain: "example.com"},
			pageURL:  "https://example.com/admin/login",
			expected: model.OriginBlocked,
		},
		{
			desc:     "Path pattern without reason",
			snapshot: &model.FormSnapshot{WebDomain: "example.com"},
			pageURL:  "https://example.com/settings/password",
			expected: model.OriginBlocked,
		},
		{
			desc:     "Plain http",
			snapshot: &model.FormSnapshot{WebDomain: "example.com", WebScheme: "http"},
			expected: model.OriginInsecure,
		},
		{
			desc:     "Plain http page url",
			snapshot: &model.FormSnapshot{WebDomain: "example.com"},
			pageURL:  "http://example.com/login",
			expected: model.OriginInsecure,
		},
		{
			desc:     "Nil snapshot",
			expected: model.OriginTrusted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			verdict := policy.Classify(tt.snapshot, tt.pageURL)
			if verdict.Trust != tt.expected {
				t.Errorf("Expected %v, got %v (%s)", tt.expected, verdict.Trust, verdict.Reason)
			}
			if verdict.Trust != model.OriginTrusted && verdict.Reason == "" {
				t.Error("Expected a reason for a non-trusted verdict")
			}
		})
	}
}

func TestPolicy_InsecureNotFlagged(t *testing.T) {
	policy := mustPolicy(t, &model.OriginConfig{FlagInsecure: false})

	verdict := policy.Classify(&model.FormSnapshot{WebDomain: "example.com", WebScheme: "http"}, "")
	if verdict.Trust != model.OriginTrusted {
		t.Errorf("Expected trusted, got %v", verdict.Trust)
	}
	if verdict.Origin != "http://example.com" {
		t.Errorf("Expected origin http://example.com, got %q", verdict.Origin)
	}
}

func TestPolicy_ReasonFromPattern(t *testing.T) {
	policy := mustPolicy(t, &model.OriginConfig{
		PathPatterns: []model.PathPattern{{Pattern: `^/admin`, Reason: "admin consoles are never filled"}},
	})

	verdict := policy.Classify(&model.FormSnapshot{WebDomain: "example.com"}, "https://example.com/admin")
	if verdict.Reason != "admin consoles are never filled" {
		t.Errorf("Unexpected reason %q", verdict.Reason)
	}
}

func TestNewPolicy_Defaults(t *testing.T) {
	policy := DefaultPolicy()

	verdict := policy.Classify(&model.FormSnapshot{WebDomain: "example.com", WebScheme: "http"}, "")
	if verdict.Trust != model.OriginInsecure {
		t.Errorf("Expected defaults to flag plain http, got %v", verdict.Trust)
	}
}

func TestNewPolicy_InvalidPathPattern(t *testing.T) {
	_, err := NewPolicy(&model.OriginConfig{
		PathPatterns: []model.PathPattern{
			{Pattern: `^/admin`},
			{Pattern: `(`},
		},
	})
	if err == nil {
		t.Fatal("Expected an error for an invalid path pattern")
	}
	if !strings.Contains(err.Error(), "path pattern 1") {
		t.Errorf("Expected the error to name the pattern, got %v", err)
	}
}
