package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize explains a report in plain language
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the scan report to explain. Field values are never sent.
	Report model.Report

	// AllowedURLs is the only set of URLs the summary may mention
	AllowedURLs []string

	// Secrets are strings that must never appear in the summary (observed
	// field values). They are used for verification only.
	Secrets []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedURLs are the URLs the LLM actually mentioned (for verification)
	CitedURLs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (e.g., a local Ollama /v1)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictPrivacy rejects summaries that leak field values or foreign URLs
	StrictPrivacy bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Model:         "",
		Timeout:       30,
		StrictPrivacy: true,
		MaxTokens:     600,
	}
}

// BuildPrompt constructs the default prompt. Only hints, scores and
// verdicts are included; observed field values never are.
func BuildPrompt(report model.Report, allowedURLs []string) string {
	var offered, fields int
	if report.Snapshot != nil {
		fields = len(report.Snapshot.Fields)
	}
	if report.Save.Offer {
		offered = len(report.Save.FieldIDs)
	}

	prompt := fmt.Sprintf(`You are explaining how a password manager classified the input fields of a form so that it can offer autofill.

RULES:
1. You may ONLY mention URLs from this allowed list:
%s

2. DO NOT guess passwords, usernames or any other field content.
3. Describe what each field was recognized as and how confident the classifier was.
4. If the form was suppressed or nothing was recognized, say so and explain the signals.

Report Summary:
- Subject: %s
- Origin: %s (%s)
- Fields observed: %d
- Fields classified: %d
- Suppressed: %t
- Save offered: %t (%d fields)

Classified fields:
`, joinURLs(allowedURLs), report.Subject, originLabel(report.Origin), report.Origin.Trust,
		fields, len(report.Score.Fields), report.Score.Suppressed, report.Save.Offer, offered)

	for _, f := range report.Score.Ordered(report.Snapshot) {
		prompt += fmt.Sprintf("- %s: %s (score %.1f)\n", f.ID, f.Hint, f.Score)
	}

	if len(report.Score.Signals) > 0 {
		prompt += "\nSignals:\n"
		for i, signal := range report.Score.Signals {
			if i >= 10 {
				prompt += fmt.Sprintf("... and %d more signals\n", len(report.Score.Signals)-10)
				break
			}
			prompt += fmt.Sprintf("- %s: %s\n", signal.Type, signal.Description)
		}
	}

	prompt += "\nProvide a 3-4 sentence explanation for a developer debugging autofill on this form."

	return prompt
}

// Helper functions

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No URLs allowed)"
	}
	result := ""
	for i, url := range urls {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more URLs", len(urls)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", url)
	}
	return result
}

func originLabel(v model.OriginVerdict) string {
	if v.Origin == "" {
		return "native application"
	}
	return v.Origin
}

// secretsOf returns the non-trivial observed values of a report
func secretsOf(report model.Report) []string {
	var out []string
	for _, f := range report.Score.Fields {
		if len(strings.TrimSpace(f.Value)) >= 3 {
			out = append(out, f.Value)
		}
	}
	if report.Snapshot != nil {
		for _, obs := range report.Snapshot.Fields {
			if len(strings.TrimSpace(obs.Value)) >= 3 {
				out = append(out, obs.Value)
			}
		}
	}
	return out
}

// allowedURLsOf returns the URLs a summary of report may mention
func allowedURLsOf(report model.Report) []string {
	var out []string
	if report.Source == "url" && report.Subject != "" {
		out = append(out, report.Subject)
	}
	if report.FetchMeta != nil && report.FetchMeta.FinalURL != "" && report.FetchMeta.FinalURL != report.Subject {
		out = append(out, report.FetchMeta.FinalURL)
	}
	if report.Origin.Origin != "" {
		out = append(out, report.Origin.Origin)
	}
	return out
}
