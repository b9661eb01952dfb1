package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/formsense/internal/fill"
	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/pipeline"
)

var (
	vaultPath  string
	ownAppID   string
	fillURL    string
	noManual   bool
	noSaveInfo bool
)

// fillCmd represents the fill command
var fillCmd = &cobra.Command{
	Use:   "fill <structure>",
	Short: "Build autofill datasets for a form from a vault file",
	Long: `Fill classifies a form and matches it against an exported vault:
- Credentials are ranked by application id, host and registrable domain
- One dataset per matching credential with the value for every field
- A missing vault file behaves like a locked vault and asks to unlock
- Without a match the user is offered manual selection

Example:
  formsense fill login.json --vault vault.json
  formsense fill login.html --url https://github.com/login --vault vault.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save <structure>",
	Short: "Turn a submitted login form into a draft credential",
	Long: `Save reads a submitted form, including the text typed into it, and
prints the login a password manager would offer to store. Forms that are
not logins are rejected.

Example:
  formsense save submitted.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(saveCmd)

	fillCmd.Flags().StringVar(&vaultPath, "vault", "vault.json", "exported vault (JSON or YAML)")
	fillCmd.Flags().StringVar(&ownAppID, "own-app", "", "application id of the password manager itself")
	fillCmd.Flags().BoolVar(&noManual, "no-manual-selection", false, "do not offer manual vault selection")
	fillCmd.Flags().BoolVar(&noSaveInfo, "no-save-info", false, "do not report save info")

	for _, cmd := range []*cobra.Command{fillCmd, saveCmd} {
		cmd.Flags().StringVar(&fillURL, "url", "", "page URL of an HTML file")
	}
}

func newFillService(cmd *cobra.Command, vault fill.VaultLoader) (*fill.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if ownAppID != "" {
		cfg.Fill.OwnApplicationID = ownAppID
	}
	if noManual {
		cfg.Fill.ManualSelection = false
	}
	if noSaveInfo {
		cfg.Fill.SaveRequest = false
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		return nil, err
	}

	policy, err := newOriginPolicy(cmd, cfg)
	if err != nil {
		return nil, err
	}

	session := fill.NewSessionCache(cfg.Fill.SessionTTL)
	return fill.NewService(fill.NewCachedLoader(vault, session), fill.Options{
		Builder: builder,
		Origin:  policy,
		Fill:    &cfg.Fill,
		Policy:  &cfg.Policy,
	}), nil
}

func runFill(cmd *cobra.Command, args []string) error {
	s, err := pipeline.LoadStructure(args[0], fillURL)
	if err != nil {
		return err
	}

	svc, err := newFillService(cmd, &fill.FileVault{Path: vaultPath})
	if err != nil {
		return err
	}

	resp, err := svc.Fill(cmd.Context(), fill.Request{Structure: s, PageURL: fillURL})
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), fillOutput{
		Datasets:        resp.Datasets,
		Prompt:          resp.Prompt,
		ManualSelection: resp.ManualSelection,
		Origin:          resp.Origin,
		Save:            resp.Save,
		Fields:          resp.Score.Ordered(resp.Snapshot),
	})
}

// fillOutput is what the fill command prints; the raw snapshot is left out
type fillOutput struct {
	Fields          []model.ClassifiedField `json:"fields"`
	Datasets        []fill.Dataset          `json:"datasets"`
	Prompt          fill.Prompt             `json:"prompt,omitempty"`
	ManualSelection bool                    `json:"manual_selection"`
	Origin          model.OriginVerdict     `json:"origin"`
	Save            model.SaveVerdict       `json:"save"`
}

func runSave(cmd *cobra.Command, args []string) error {
	s, err := pipeline.LoadStructure(args[0], fillURL)
	if err != nil {
		return err
	}

	svc, err := newFillService(cmd, &fill.FileVault{Path: vaultPath})
	if err != nil {
		return err
	}

	draft, err := svc.Save(cmd.Context(), fill.Request{Structure: s, PageURL: fillURL})
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), draft)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
