package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/formsense/internal/logging"
	"github.com/ppiankov/formsense/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "formsense",
	Short: "formsense - autofill form field classification",
	Long: `formsense decides what each field of a login, payment or address form
is for, the way a password manager's autofill service does.

It reads view structure dumps from devices or HTML login pages, ranks the
guesses of several inference strategies per field, and reports which
fields would be filled, which would be skipped and why.

Classification is deterministic. The optional LLM summary only explains
a finished report.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.ForVerbosity(verbose)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		cmd.SetContext(logging.WithContext(cmd.Context(), logger))
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.FromContext(cmd.Context()).Sync()
	},
}

// Execute runs the root command until ctx is canceled
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of formsense.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "formsense %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.formsense/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// envKeys are the nested settings that can be overridden from the
// environment as FORMSENSE_<SECTION>_<KEY>
var envKeys = []string{
	"vocabulary",
	"policy.respect_autofill_off",
	"policy.low_confidence_epsilon",
	"fill.own_application_id",
	"fill.max_suggestions",
	"fill.manual_selection",
	"fill.save_request",
	"http.timeout",
	"http.user_agent",
	"http.respect_robots",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
	"cache.enabled",
	"cache.dir",
	"concurrency.workers",
	"rate_limiting.requests_per_second",
	"llm.provider",
	"llm.model",
	"llm.base_url",
	"output.include_values",
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".formsense"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match FORMSENSE_*
	viper.SetEnvPrefix("FORMSENSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}
	_ = viper.BindEnv("llm.api_key", "FORMSENSE_LLM_API_KEY", "OPENAI_API_KEY")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}

// loadConfig layers the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
