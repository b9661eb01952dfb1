package fill

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/formsense/internal/logging"
	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/origin"
	"github.com/ppiankov/formsense/internal/structure"
)

type stubVault struct {
	vault *Vault
	err   error
	loads int
}

func (s *stubVault) Load(ctx context.Context) (*Vault, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.vault, nil
}

func loginScreen(app string) *structure.Structure {
	return &structure.Structure{Windows: []structure.Window{{
		Title: app + "/" + app + ".LoginActivity",
		Root: &structure.ViewNode{Visible: true, Children: []*structure.ViewNode{
			{AutofillID: "user", Visible: true, AutofillHints: []string{"username"}, Text: "alice"},
			{AutofillID: "pass", Visible: true, AutofillHints: []string{"password"}, Text: "hunter2"},
		}},
	}}}
}

func testVault() *Vault {
	return &Vault{Credentials: []Credential{
		{ID: "1", Name: "Example", Login: &Login{Username: "alice", Password: "hunter2"}, URIs: []string{"androidapp://com.example.app"}},
		{ID: "2", Name: "Elsewhere", Login: &Login{Username: "bob"}, URIs: []string{"https://other.org"}},
	}}
}

func TestService_Fill(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logging.WithContext(context.Background(), zap.New(core))

	svc := NewService(&stubVault{vault: testVault()}, Options{})
	resp, err := svc.Fill(ctx, Request{Structure: loginScreen("com.example.app")})
	require.NoError(t, err)

	assert.Equal(t, "com.example.app", resp.Snapshot.ApplicationID)
	assert.Equal(t, PromptNone, resp.Prompt)
	require.Len(t, resp.Datasets, 1)
	assert.Equal(t, map[model.FieldID]string{"user": "alice", "pass": "hunter2"}, resp.Datasets[0].Values)
	assert.True(t, resp.ManualSelection)
	assert.True(t, resp.Save.Offer)
	assert.Equal(t, []model.FieldID{"pass", "user"}, resp.Save.FieldIDs)

	assert.Equal(t, 1, logs.FilterMessage("fill datasets built").Len())
}

func TestService_FillLockedVault(t *testing.T) {
	svc := NewService(&stubVault{err: ErrVaultLocked}, Options{})

	resp, err := svc.Fill(context.Background(), Request{Structure: loginScreen("com.example.app")})
	require.NoError(t, err)
	assert.Equal(t, PromptUnlock, resp.Prompt)
	assert.Empty(t, resp.Datasets)
	assert.True(t, resp.Save.Offer)
}

func TestService_FillNoMatch(t *testing.T) {
	svc := NewService(&stubVault{vault: testVault()}, Options{})

	resp, err := svc.Fill(context.Background(), Request{Structure: loginScreen("com.example.news")})
	require.NoError(t, err)
	assert.Equal(t, PromptSelect, resp.Prompt)
	assert.Empty(t, resp.Datasets)
}

func TestService_FillOwnApplication(t *testing.T) {
	fill := model.DefaultConfig().Fill
	fill.OwnApplicationID = "com.example.vault"

	locked := NewService(&stubVault{err: ErrVaultLocked}, Options{Fill: &fill})
	_, err := locked.Fill(context.Background(), Request{Structure: loginScreen("com.example.vault")})
	assert.ErrorIs(t, err, ErrOwnApplication)

	unmatched := NewService(&stubVault{vault: testVault()}, Options{Fill: &fill})
	_, err = unmatched.Fill(context.Background(), Request{Structure: loginScreen("com.example.vault")})
	assert.ErrorIs(t, err, ErrNoMatch)

	own := &Vault{Credentials: []Credential{{ID: "1", Login: &Login{Username: "a"}, URIs: []string{"androidapp://com.example.vault"}}}}
	matched := NewService(&stubVault{vault: own}, Options{Fill: &fill})
	resp, err := matched.Fill(context.Background(), Request{Structure: loginScreen("com.example.vault")})
	require.NoError(t, err)
	assert.False(t, resp.ManualSelection)
	assert.False(t, resp.Save.Offer)
}

func TestService_FillErrors(t *testing.T) {
	blocked, err := origin.NewPolicy(&model.OriginConfig{BlockedApplications: []string{"com.example.app"}})
	require.NoError(t, err)

	vaultErr := errors.New("disk on fire")

	tests := []struct {
		desc     string
		vault    *stubVault
		opts     Options
		req      Request
		expected error
	}{
		{
			desc:     "No structure",
			vault:    &stubVault{vault: testVault()},
			expected: ErrNothingToFill,
		},
		{
			desc:  "Nothing fillable",
			vault: &stubVault{vault: testVault()},
			req: Request{Structure: &structure.Structure{Windows: []structure.Window{{
				Title: "com.example.app/Main",
				Root:  &structure.ViewNode{Visible: true},
			}}}},
			expected: ErrNothingToFill,
		},
		{
			desc:     "Blocked application",
			vault:    &stubVault{vault: testVault()},
			opts:     Options{Origin: blocked},
			req:      Request{Structure: loginScreen("com.example.app")},
			expected: ErrNothingToFill,
		},
		{
			desc:     "Vault failure",
			vault:    &stubVault{err: vaultErr},
			req:      Request{Structure: loginScreen("com.example.app")},
			expected: vaultErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			svc := NewService(tt.vault, tt.opts)
			_, err := svc.Fill(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestService_FillCanceled(t *testing.T) {
	vault := &stubVault{vault: testVault()}
	svc := NewService(vault, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Fill(ctx, Request{Structure: loginScreen("com.example.app")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, vault.loads)
}

func TestService_Save(t *testing.T) {
	svc := NewService(&stubVault{err: ErrVaultLocked}, Options{})

	draft, err := svc.Save(context.Background(), Request{Structure: loginScreen("com.example.app")})
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", draft.Name)
	assert.Equal(t, []string{"androidapp://com.example.app"}, draft.URIs)
	assert.Equal(t, &Login{Username: "alice", Password: "hunter2"}, draft.Login)
}

func TestService_SaveWeb(t *testing.T) {
	page := `<form>
		<input type="email" name="email" value="alice@example.com">
		<input type="password" name="password" value="hunter2">
	</form>`
	s, err := structure.FromHTML(strings.NewReader(page), "https://accounts.example.com/login")
	require.NoError(t, err)

	draft, err := NewService(&stubVault{}, Options{}).Save(context.Background(), Request{Structure: s})
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", draft.Name)
	assert.Equal(t, []string{"https://accounts.example.com"}, draft.URIs)
	assert.Equal(t, "alice@example.com", draft.Login.Username)
}

func TestService_SaveRejectsNonLogin(t *testing.T) {
	s := &structure.Structure{Windows: []structure.Window{{
		Title: "com.example.shop/Checkout",
		Root: &structure.ViewNode{Visible: true, Children: []*structure.ViewNode{
			{AutofillID: "n", Visible: true, AutofillHints: []string{"cc-number"}},
			{AutofillID: "c", Visible: true, AutofillHints: []string{"cc-csc"}},
		}},
	}}}

	_, err := NewService(&stubVault{}, Options{}).Save(context.Background(), Request{Structure: s})
	assert.ErrorIs(t, err, ErrNotLogin)
}

func TestService_KeepsVaultForSession(t *testing.T) {
	inner := &stubVault{vault: testVault()}
	svc := NewService(inner, Options{Fill: &model.FillConfig{SessionTTL: time.Minute, ManualSelection: true}})

	for i := 0; i < 3; i++ {
		resp, err := svc.Fill(context.Background(), Request{Structure: loginScreen("com.example.app")})
		require.NoError(t, err)
		require.Len(t, resp.Datasets, 1)
	}
	assert.Equal(t, 1, inner.loads)

	svc.Lock()
	_, err := svc.Fill(context.Background(), Request{Structure: loginScreen("com.example.app")})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.loads)
}

func TestService_UsesGivenCachedLoader(t *testing.T) {
	inner := &stubVault{vault: testVault()}
	session := NewSessionCache(time.Minute)
	svc := NewService(NewCachedLoader(inner, session), Options{})

	_, err := svc.Fill(context.Background(), Request{Structure: loginScreen("com.example.app")})
	require.NoError(t, err)
	_, ok := session.Get()
	assert.True(t, ok)

	svc.Lock()
	_, ok = session.Get()
	assert.False(t, ok)
}

func TestCachedLoader(t *testing.T) {
	inner := &stubVault{vault: testVault()}
	loader := NewCachedLoader(inner, NewSessionCache(time.Minute))

	for i := 0; i < 3; i++ {
		v, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, v.Credentials, 2)
	}
	assert.Equal(t, 1, inner.loads)
}

func TestCachedLoader_LockedIsNotCached(t *testing.T) {
	inner := &stubVault{err: ErrVaultLocked}
	session := NewSessionCache(0)
	loader := NewCachedLoader(inner, session)

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrVaultLocked)
	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrVaultLocked)
	assert.Equal(t, 2, inner.loads)

	inner.err, inner.vault = nil, testVault()
	_, err = loader.Load(context.Background())
	require.NoError(t, err)

	session.Lock()
	_, ok := session.Get()
	assert.False(t, ok)
}
