package fill

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/formsense/internal/logging"
	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/origin"
	"github.com/ppiankov/formsense/internal/score"
	"github.com/ppiankov/formsense/internal/structure"
	"github.com/ppiankov/formsense/internal/traverse"
)

var (
	// ErrNothingToFill means no field of the structure can be autofilled
	ErrNothingToFill = errors.New("nothing to autofill")
	// ErrNotLogin means a save was requested for a form that is not a login
	ErrNotLogin = errors.New("can only save login data")
	// ErrOwnApplication means the request targets the password manager itself
	ErrOwnApplication = errors.New("can not autofill own app password")
	// ErrNoMatch means no credential fits the form
	ErrNoMatch = errors.New("no match found")
)

// Prompt asks the user to act before anything can be filled
type Prompt string

const (
	PromptNone   Prompt = ""
	PromptUnlock Prompt = "unlock" // Vault is locked
	PromptSelect Prompt = "select" // Nothing matched; let the user pick
)

// Request is one autofill or save request
type Request struct {
	Structure *structure.Structure
	PageURL   string // Optional, enables path-based origin rules
}

// Response is the outcome of a fill request
type Response struct {
	Snapshot        *model.FormSnapshot `json:"snapshot"`
	Score           model.Score         `json:"score"`
	Origin          model.OriginVerdict `json:"origin"`
	Datasets        []Dataset           `json:"datasets,omitempty"`
	Prompt          Prompt              `json:"prompt,omitempty"`
	ManualSelection bool                `json:"manual_selection"` // Offer an entry that opens the full vault
	Save            model.SaveVerdict   `json:"save"`
}

// Service answers fill and save requests against a vault
type Service struct {
	builder *traverse.Builder
	scorer  *score.Scorer
	origin  *origin.Policy
	vault   VaultLoader
	session *SessionCache
	config  model.FillConfig
	policy  model.PolicyConfig
	code    CodeFunc
}

// Options configures a Service. Zero values select defaults.
type Options struct {
	Builder *traverse.Builder
	Origin  *origin.Policy
	Fill    *model.FillConfig
	Policy  *model.PolicyConfig
	Codes   CodeFunc
}

// NewService creates a fill service reading credentials from vault. The
// unlocked vault is kept for Fill.SessionTTL unless vault is already a
// CachedLoader.
func NewService(vault VaultLoader, opts Options) *Service {
	defaults := model.DefaultConfig()

	s := &Service{
		builder: opts.Builder,
		scorer:  score.NewScorer(),
		origin:  opts.Origin,
		vault:   vault,
		config:  defaults.Fill,
		policy:  defaults.Policy,
		code:    opts.Codes,
	}
	if s.builder == nil {
		s.builder = traverse.NewBuilder(nil)
	}
	if s.origin == nil {
		s.origin = origin.DefaultPolicy()
	}
	if opts.Fill != nil {
		s.config = *opts.Fill
	}
	if opts.Policy != nil {
		s.policy = *opts.Policy
	}
	if s.code == nil {
		s.code = TOTPGenerator(nil)
	}
	if cached, ok := vault.(*CachedLoader); ok {
		s.session = cached.session
	} else {
		s.session = NewSessionCache(s.config.SessionTTL)
		s.vault = NewCachedLoader(vault, s.session)
	}
	return s
}

// Lock forgets the unlocked vault; the next request loads it again
func (s *Service) Lock() {
	s.session.Lock()
}

// classify runs the snapshot, origin and score stages shared by fill and save
func (s *Service) classify(ctx context.Context, req Request) (*Response, error) {
	if req.Structure == nil {
		return nil, ErrNothingToFill
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot, err := s.builder.Build(req.Structure)
	if err != nil {
		return nil, fmt.Errorf("parse structure: %w", err)
	}

	resp := &Response{
		Snapshot: snapshot,
		Origin:   s.origin.Classify(snapshot, req.PageURL),
	}
	if resp.Origin.Trust == model.OriginBlocked {
		return resp, fmt.Errorf("%w: %s", ErrNothingToFill, resp.Origin.Reason)
	}

	resp.Score = s.scorer.Calculate(snapshot, s.policy)
	if len(resp.Score.Fields) == 0 {
		return resp, ErrNothingToFill
	}
	return resp, nil
}

// Fill classifies the structure and builds the datasets offered for it.
// A locked vault or an empty match produces a prompt instead of datasets,
// except for the password manager's own application where both are errors.
func (s *Service) Fill(ctx context.Context, req Request) (*Response, error) {
	logger := logging.FromContext(ctx)

	resp, err := s.classify(ctx, req)
	if err != nil {
		logger.Debug("nothing to fill", zap.Error(err))
		return resp, err
	}

	snapshot := resp.Snapshot
	own := s.config.OwnApplicationID != "" && snapshot.ApplicationID == s.config.OwnApplicationID
	logger = logger.With(
		zap.String("application_id", snapshot.ApplicationID),
		zap.String("web_domain", snapshot.WebDomain),
		zap.Int("fields", len(resp.Score.Fields)),
	)

	vault, err := s.vault.Load(ctx)
	switch {
	case errors.Is(err, ErrVaultLocked):
		if own {
			return resp, ErrOwnApplication
		}
		logger.Debug("vault locked, asking to unlock")
		resp.Prompt = PromptUnlock
		s.attachSave(resp, own)
		return resp, nil
	case err != nil:
		return resp, fmt.Errorf("load vault: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return resp, err
	}

	fields := resp.Score.Ordered(snapshot)
	suggested := Suggest(vault.Credentials, TargetFor(snapshot, resp.Score), s.config.MaxSuggestions)
	if len(suggested) == 0 {
		if own {
			return resp, ErrNoMatch
		}
		logger.Debug("no matching credentials, asking to select")
		resp.Prompt = PromptSelect
		s.attachSave(resp, own)
		return resp, nil
	}

	resp.Datasets = BuildDatasets(suggested, fields, s.code)
	resp.ManualSelection = s.config.ManualSelection && !own
	s.attachSave(resp, own)

	logger.Info("fill datasets built",
		zap.Int("suggestions", len(suggested)),
		zap.Int("datasets", len(resp.Datasets)),
	)
	return resp, nil
}

func (s *Service) attachSave(resp *Response, own bool) {
	if !s.config.SaveRequest || own {
		return
	}
	resp.Save = DetectSave(resp.Snapshot, resp.Score)
}

// Save turns a submitted login form into a draft credential. The values are
// taken from the classified fields; forms that are not logins are rejected.
func (s *Service) Save(ctx context.Context, req Request) (*Credential, error) {
	logger := logging.FromContext(ctx)

	resp, err := s.classify(ctx, req)
	if err != nil {
		return nil, err
	}
	if !IsLoginShaped(resp.Score.Hints()) {
		logger.Debug("save rejected", zap.Any("hints", resp.Score.Hints()))
		return nil, ErrNotLogin
	}

	snapshot := resp.Snapshot
	login := &Login{}
	for _, f := range resp.Score.Ordered(snapshot) {
		switch {
		case f.Hint.IsLoginIdentity() && login.Username == "":
			login.Username = f.Value
		case f.Hint.IsLoginSecret() && login.Password == "":
			login.Password = f.Value
		}
	}

	draft := &Credential{Login: login}
	switch {
	case snapshot.WebDomain != "":
		draft.Name = snapshot.WebDomain
		draft.URIs = []string{snapshot.Origin()}
	case snapshot.ApplicationID != "":
		draft.Name = snapshot.ApplicationID
		draft.URIs = []string{androidAppScheme + snapshot.ApplicationID}
	}

	logger.Info("login draft created", zap.String("name", draft.Name))
	return draft, nil
}
