package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/formsense/internal/cache"
	"github.com/ppiankov/formsense/internal/fill"
	"github.com/ppiankov/formsense/internal/infer"
	"github.com/ppiankov/formsense/internal/llm"
	"github.com/ppiankov/formsense/internal/logging"
	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/origin"
	"github.com/ppiankov/formsense/internal/score"
	"github.com/ppiankov/formsense/internal/structure"
	"github.com/ppiankov/formsense/internal/traverse"
	"github.com/ppiankov/formsense/internal/vocab"
)

// Pipeline orchestrates the complete scan process
type Pipeline struct {
	fetcher    *Fetcher
	builder    *traverse.Builder
	scorer     *score.Scorer
	origin     *origin.Policy
	reports    *cache.Reports  // nil when caching is disabled
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	renderer   *Renderer
	config     *model.Config
	now        func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration. A broken
// vocabulary file or origin path pattern is an error; a broken LLM setup
// only disables summaries.
func NewPipeline(ctx context.Context, cfg *model.Config) (*Pipeline, error) {
	table, err := vocab.LoadTable(cfg.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	policy, err := origin.NewPolicy(&cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("origin policy: %w", err)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logging.FromContext(ctx).Warn("LLM provider disabled", zap.Error(err))
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		fetcher:    NewFetcherFromConfig(cfg),
		builder:    traverse.NewBuilder(infer.NewEngine(table)),
		scorer:     score.NewScorer(),
		origin:     policy,
		reports:    cache.FromConfig(cfg.Cache),
		summarizer: summarizer,
		renderer:   NewRenderer(cfg.Output.IncludeValues),
		config:     cfg,
		now:        time.Now,
	}, nil
}

// Scan dispatches target to ScanURL for http(s) URLs and ScanFile otherwise
func (p *Pipeline) Scan(ctx context.Context, target string) (*model.Report, error) {
	if isURL(target) {
		return p.ScanURL(ctx, target)
	}
	return p.ScanFile(ctx, target, "")
}

// ScanURL fetches a login page and classifies its form
func (p *Pipeline) ScanURL(ctx context.Context, rawURL string) (*model.Report, error) {
	ctx, logger := logging.WithSubject(ctx, rawURL)

	key := cache.CacheKey(rawURL, p.variant())
	if report, ok := p.reports.Get(key); ok {
		logger.Debug("report cache hit")
		return report, nil
	}

	logger.Debug("fetching page")
	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	s, err := structure.FromHTML(strings.NewReader(fetched.HTML), fetched.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	report, err := p.analyze(ctx, s, fetched.FinalURL)
	if err != nil {
		return nil, err
	}
	report.Subject = rawURL
	report.Source = "url"
	meta := fetched.Meta
	report.FetchMeta = &meta

	if err := p.reports.Put(key, report); err != nil {
		logger.Warn("report not cached", zap.Error(err))
	}
	return report, nil
}

// ScanFile classifies a saved HTML page or a JSON/YAML view structure dump.
// pageURL supplies the origin of HTML files and may be empty.
func (p *Pipeline) ScanFile(ctx context.Context, path string, pageURL string) (*model.Report, error) {
	ctx, _ = logging.WithSubject(ctx, path)

	s, err := LoadStructure(path, pageURL)
	if err != nil {
		return nil, err
	}

	report, err := p.analyze(ctx, s, pageURL)
	if err != nil {
		return nil, err
	}
	report.Subject = path
	report.Source = "file"
	return report, nil
}

// LoadStructure reads a saved HTML page, by extension, or a JSON/YAML view
// structure dump
func LoadStructure(path string, pageURL string) (*structure.Structure, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read page: %w", err)
		}
		s, err := structure.FromHTML(bytes.NewReader(data), pageURL)
		if err != nil {
			return nil, fmt.Errorf("parse page: %w", err)
		}
		return s, nil
	default:
		return structure.Load(path)
	}
}

// analyze runs snapshot, origin, score, save detection and the optional
// summary. The summary runs last and never alters the classification.
func (p *Pipeline) analyze(ctx context.Context, s *structure.Structure, pageURL string) (*model.Report, error) {
	logger := logging.FromContext(ctx)

	snapshot, err := p.builder.Build(s)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	report := &model.Report{
		ScannedAt: p.now().UTC(),
		Snapshot:  snapshot,
		Origin:    p.origin.Classify(snapshot, pageURL),
		Score:     p.scorer.Calculate(snapshot, p.config.Policy),
	}
	report.Save = fill.DetectSave(snapshot, report.Score)

	logger.Debug("form classified",
		zap.Int("observed", len(snapshot.Fields)),
		zap.Int("classified", len(report.Score.Fields)),
		zap.Bool("suppressed", report.Score.Suppressed),
		zap.String("origin", string(report.Origin.Trust)))

	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			logger.Warn("LLM summary generation failed", zap.Error(err))
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// variant separates cache entries produced under different policies
func (p *Pipeline) variant() string {
	o := p.config.Origin
	patterns := make([]string, 0, 2*len(o.PathPatterns))
	for _, pp := range o.PathPatterns {
		patterns = append(patterns, pp.Pattern, pp.Reason)
	}
	return fmt.Sprintf("respect=%t,eps=%g,vocab=%s,llm=%s,apps=%q,domains=%q,paths=%q,insecure=%t",
		p.config.Policy.RespectAutofillOff, p.config.Policy.LowConfidenceEpsilon,
		p.config.Vocabulary, p.config.LLM.Provider,
		o.BlockedApplications, o.BlockedDomains, patterns, o.FlagInsecure)
}

// RenderReport renders the report to the specified outputs and prints the
// terminal summary to stdout
func (p *Pipeline) RenderReport(ctx context.Context, report *model.Report, jsonPath string, mdPath string) error {
	logger := logging.FromContext(ctx)

	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		logger.Info("wrote JSON report", zap.String("path", jsonPath))
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		logger.Info("wrote Markdown report", zap.String("path", mdPath))
	}

	// Render LLM summary to separate file if present
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmMdPath); err != nil {
			logger.Warn("failed to write LLM summary", zap.Error(err))
		} else {
			logger.Info("wrote LLM summary", zap.String("path", llmMdPath))
		}
	}

	return p.renderer.RenderSummary(os.Stdout, report)
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

func isURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
