package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

// Summarizer produces the optional plain-language explanation of a report.
// It runs after classification and never changes it.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. An empty provider yields a disabled
// summarizer.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider, or ""
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary explains report. Provider failures are reported as
// warnings on the summary rather than errors so a scan never fails because
// of its summary.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:      s.provider.Name(),
		Model:         s.config.Model,
		StrictPrivacy: s.config.StrictPrivacy,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Provider %s is not available", s.provider.Name()))
		return summary, nil
	}
	summary.Enabled = true

	req := SummarizeRequest{
		Report:      report,
		AllowedURLs: allowedURLsOf(report),
		Secrets:     secretsOf(report),
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	}

	resp, err := s.provider.Summarize(ctx, req)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Summary generation failed: %v", err))
		return summary, nil
	}

	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.SummaryMD = resp.Summary
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.StrictPrivacy {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d URLs and no echoed field values", len(resp.CitedURLs)))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders the summary as its own Markdown document,
// kept apart from the deterministic report
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> GENERATED CONTENT. The classification in the main report was determined independently of this text.\n\n")
	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Privacy Mode:** %t\n\n", summary.StrictPrivacy)

	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
