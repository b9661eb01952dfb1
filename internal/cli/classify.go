package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/formsense/internal/infer"
	"github.com/ppiankov/formsense/internal/logging"
	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/origin"
	"github.com/ppiankov/formsense/internal/pipeline"
	"github.com/ppiankov/formsense/internal/traverse"
	"github.com/ppiankov/formsense/internal/vocab"
)

var (
	pageURL       string
	includeValues bool
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify the fields of a view structure dump or HTML page",
	Long: `Classify reads one form and prints its classification as JSON:
- JSON or YAML view structure dumps captured on a device
- Saved HTML pages (use --url to give the page its origin)

Observed field text is redacted unless --include-values is set.

Example:
  formsense classify login.json
  formsense classify login.html --url https://accounts.example.com/login`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&pageURL, "url", "", "page URL of an HTML file")
	classifyCmd.Flags().BoolVar(&includeValues, "include-values", false, "print observed field text")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("include-values") {
		cfg.Output.IncludeValues = includeValues
	}

	p, err := pipeline.NewPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	report, err := p.ScanFile(cmd.Context(), args[0], pageURL)
	if err != nil {
		return fmt.Errorf("classify failed: %w", err)
	}

	data, err := p.Renderer().MarshalJSON(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// newBuilder creates a snapshot builder using the configured vocabulary
func newBuilder(cfg *model.Config) (*traverse.Builder, error) {
	table, err := vocab.LoadTable(cfg.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return traverse.NewBuilder(infer.NewEngine(table)), nil
}

// newOriginPolicy logs the blocked origins in verbose mode
func newOriginPolicy(cmd *cobra.Command, cfg *model.Config) (*origin.Policy, error) {
	logging.FromContext(cmd.Context()).Debug("origin policy",
		zap.Strings("blocked_applications", cfg.Origin.BlockedApplications),
		zap.Strings("blocked_domains", cfg.Origin.BlockedDomains))
	policy, err := origin.NewPolicy(&cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("origin policy: %w", err)
	}
	return policy, nil
}
