package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	insecureTLS bool
	noRobots    bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Fetch a login page and classify its form",
	Long: `Scan fetches a web page and reports how an autofill service would
treat its form:
- Which fields are classified and as what
- Which fields were dropped and why
- Whether the origin is trusted, insecure or blocked
- Whether submitting the form would offer to save a login

Example:
  formsense scan https://github.com/login
  formsense scan https://example.com/login --json report.json --md report.md
  formsense scan https://example.com/login --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (- for stdout)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scanCmd.Flags().BoolVar(&includeValues, "include-values", false, "include observed field text in reports")

	addFetchFlags(scanCmd)
	scanCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall scan timeout")
}

// addFetchFlags registers the HTTP and LLM flags shared by scan and batch
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().BoolVar(&noRobots, "ignore-robots", false, "do not consult robots.txt")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// applyFetchFlags layers explicitly set flags over cfg
func applyFetchFlags(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("include-values") {
		cfg.Output.IncludeValues = includeValues
	}
	cfg.Output.Verbose = verbose

	if llmEnabled {
		if cfg.LLM.Provider == "" {
			cfg.LLM.Provider = "openai"
		}
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		cfg.LLM.StrictPrivacy = true // Always enforce
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	} else {
		cfg.LLM.Provider = ""
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFetchFlags(cmd, cfg); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := p.ScanURL(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Observed %d fields\n", len(report.Snapshot.Fields))
		fmt.Fprintf(os.Stderr, "✓ Classified %d fields\n", len(report.Score.Fields))
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(ctx, report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
