package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/formsense/internal/vocab"
)

// vocabCmd represents the vocab command
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect and validate keyword tables",
	Long: `The vocabulary maps words found in field names, ids and labels to hints.
A custom YAML table set with "vocabulary" in the config replaces the
built-in one entirely.`,
}

var vocabDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in vocabulary as YAML",
	Long:  `Print the built-in tables in the format accepted by the "vocabulary" setting. Use it as a starting point for a custom table.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := vocab.Encode(vocab.Default())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var vocabCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a vocabulary file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := vocab.LoadTable(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d matcher rules\n", args[0], table.Rules())
		return nil
	},
}

var vocabMatchCmd = &cobra.Command{
	Use:   "match <text>",
	Short: "Show which rules fire for a field name, id or label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		table, err := vocab.LoadTable(cfg.Vocabulary)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		matches := table.Match(args[0])
		if len(matches) == 0 {
			fmt.Fprintln(out, "no matcher rule fired")
		}
		for _, m := range matches {
			fmt.Fprintf(out, "%-32s %-8s %s\n", m.Hint, m.Accuracy, m.Rule)
		}
		if hint, ok := table.MatchLabel(args[0]); ok {
			fmt.Fprintf(out, "label list: %s\n", hint)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.AddCommand(vocabDumpCmd)
	vocabCmd.AddCommand(vocabCheckCmd)
	vocabCmd.AddCommand(vocabMatchCmd)
}
