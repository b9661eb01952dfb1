package fill

import (
	"bytes"
	"context"
	"encoding/base32"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/formsense/internal/model"
)

func TestCredential_Value(t *testing.T) {
	c := &Credential{
		Login:    &Login{Username: "+1 555 123 4567", Password: "hunter2"},
		Card:     &Card{Number: "4111111111111111", Code: "123", ExpMonth: "3", ExpYear: "2027"},
		Identity: &Identity{FirstName: "Ada", MiddleName: "Ångström", LastName: "Lovelace"},
	}

	tests := []struct {
		hint     model.Hint
		expected string
	}{
		{model.HintUsername, "+1 555 123 4567"},
		{model.HintEmail, "+1 555 123 4567"},
		{model.HintPassword, "hunter2"},
		{model.HintPhoneNumber, "+1 555 123 4567"},
		{model.HintCardNumber, "4111111111111111"},
		{model.HintCardSecurityCode, "123"},
		{model.HintCardExpirationDate, "03/27"},
		{model.HintPersonName, "Ada"},
		{model.HintPersonNameFamily, "Lovelace"},
		{model.HintPersonNameMiddleInitial, "Å"},
		{model.HintNewPassword, ""},
		{model.HintAppOTP, ""},
		{model.HintGender, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.hint), func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Value(tt.hint, nil))
		})
	}
}

func TestCredential_ValuePhoneFromUsername(t *testing.T) {
	c := &Credential{Login: &Login{Username: "alice@example.com"}}
	assert.Empty(t, c.Value(model.HintPhoneNumber, nil))

	c.Identity = &Identity{Phone: "+44 20 7946 0000"}
	assert.Equal(t, "+44 20 7946 0000", c.Value(model.HintPhoneNumber, nil))
}

func TestCredential_ValuesFallback(t *testing.T) {
	c := &Credential{
		Login:    &Login{Username: "alice", Password: "hunter2"},
		Identity: &Identity{FirstName: "Alice"},
	}

	values := c.Values([]model.Hint{
		model.HintNewUsername,
		model.HintNewPassword,
		model.HintPersonNameGiven,
		model.HintNewPassword,
		model.HintCardNumber,
	}, nil)

	assert.Equal(t, map[model.Hint]string{
		model.HintNewUsername:     "alice",
		model.HintNewPassword:     "hunter2",
		model.HintPersonNameGiven: "Alice",
	}, values)
}

func TestCredential_ValuesOneTimeCode(t *testing.T) {
	c := &Credential{Login: &Login{TOTP: "JBSWY3DPEHPK3PXP"}}

	code := func(secret string) (string, error) { return "123456", nil }
	assert.Equal(t, map[model.Hint]string{model.HintAppOTP: "123456"},
		c.Values([]model.Hint{model.HintAppOTP}, code))

	failing := func(string) (string, error) { return "", errors.New("bad secret") }
	assert.Empty(t, c.Values([]model.Hint{model.HintAppOTP}, failing))
}

func TestTOTP_ReferenceVectors(t *testing.T) {
	encode := func(key string) string {
		return base32.StdEncoding.EncodeToString([]byte(key))
	}
	sha1Key := encode("12345678901234567890")
	sha256Key := encode("12345678901234567890123456789012")
	sha512Key := encode("1234567890123456789012345678901234567890123456789012345678901234")

	tests := []struct {
		uri      string
		at       int64
		expected string
	}{
		{"otpauth://totp/x?digits=8&secret=" + sha1Key, 59, "94287082"},
		{"otpauth://totp/x?digits=8&secret=" + sha1Key, 1111111109, "07081804"},
		{"otpauth://totp/x?digits=8&secret=" + sha1Key, 1234567890, "89005924"},
		{"otpauth://totp/x?digits=8&algorithm=SHA256&secret=" + sha256Key, 59, "46119246"},
		{"otpauth://totp/x?digits=8&algorithm=sha512&secret=" + sha512Key, 59, "90693936"},
	}

	for _, tt := range tests {
		totp, err := ParseTOTP(tt.uri)
		require.NoError(t, err)

		code, err := totp.At(time.Unix(tt.at, 0))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, code, "t=%d %s", tt.at, totp.Algorithm)
	}
}

func TestTOTPGenerator(t *testing.T) {
	now := func() time.Time { return time.Unix(59, 0) }
	generate := TOTPGenerator(now)

	code, err := generate("GEZD GNBV GY3T QOJQ GEZD GNBV GY3T QOJQ")
	require.NoError(t, err)
	assert.Equal(t, "287082", code)

	_, err = generate("not base32!")
	assert.Error(t, err)
}

func TestParseTOTP_Errors(t *testing.T) {
	for _, raw := range []string{
		"",
		"otpauth://hotp/x?secret=JBSWY3DPEHPK3PXP",
		"otpauth://totp/x?secret=JBSWY3DPEHPK3PXP&digits=3",
		"otpauth://totp/x?secret=JBSWY3DPEHPK3PXP&period=0",
		"otpauth://totp/x?secret=JBSWY3DPEHPK3PXP&algorithm=MD5",
		"otpauth://totp/x?digits=6",
		"not base32!",
	} {
		_, err := ParseTOTP(raw)
		assert.Error(t, err, raw)
	}
}

func TestSuggest(t *testing.T) {
	credentials := []Credential{
		{ID: "site", Login: &Login{Username: "a"}, URIs: []string{"example.com"}},
		{ID: "other", Login: &Login{Username: "b"}, URIs: []string{"https://other.org"}},
		{ID: "host", Login: &Login{Username: "c"}, URIs: []string{"https://accounts.example.com/login"}},
		{ID: "deleted", Login: &Login{Username: "d"}, URIs: []string{"https://accounts.example.com"}, Deleted: true},
		{ID: "app", Login: &Login{Username: "e"}, URIs: []string{"androidapp://com.example.app"}},
		{ID: "card", Card: &Card{Number: "4111"}, URIs: []string{"https://accounts.example.com"}},
	}
	target := Target{
		ApplicationID: "com.example.app",
		WebDomain:     "accounts.example.com",
		Hints:         []model.Hint{model.HintUsername, model.HintPassword},
	}

	var ids []string
	for _, c := range Suggest(credentials, target, 0) {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"app", "host", "site"}, ids)

	assert.Len(t, Suggest(credentials, target, 2), 2)
}

func TestSuggest_CardForm(t *testing.T) {
	credentials := []Credential{
		{ID: "login", Login: &Login{Username: "a"}, URIs: []string{"shop.example"}},
		{ID: "card", Card: &Card{Number: "4111"}, URIs: []string{"shop.example"}},
	}
	target := Target{WebDomain: "shop.example", Hints: []model.Hint{model.HintCardNumber, model.HintCardSecurityCode}}

	out := Suggest(credentials, target, 10)
	require.Len(t, out, 1)
	assert.Equal(t, "card", out[0].ID)
}

func TestSuggest_PublicSuffixIsNotASite(t *testing.T) {
	credentials := []Credential{{ID: "x", Login: &Login{}, URIs: []string{"https://evil.github.io"}}}
	target := Target{WebDomain: "good.github.io", Hints: []model.Hint{model.HintPassword}}

	assert.Empty(t, Suggest(credentials, target, 10))
}

func TestBuildDatasets(t *testing.T) {
	credentials := []Credential{
		{ID: "1", Name: "Example", Login: &Login{Username: "alice", Password: "hunter2"}},
		{ID: "2", Name: "Card", Card: &Card{Number: "4111111111111111"}},
	}
	fields := []model.ClassifiedField{
		{ID: "u", Hint: model.HintEmail},
		{ID: "p", Hint: model.HintPassword},
	}

	datasets := BuildDatasets(credentials, fields, nil)
	require.Len(t, datasets, 1)
	assert.Equal(t, Dataset{
		CredentialID: "1",
		Title:        "Example",
		Subtitle:     "alice",
		Values:       map[model.FieldID]string{"u": "alice", "p": "hunter2"},
	}, datasets[0])

	cards := BuildDatasets(credentials[1:], []model.ClassifiedField{{ID: "n", Hint: model.HintCardNumber}}, nil)
	require.Len(t, cards, 1)
	assert.Equal(t, "*1111", cards[0].Subtitle)
}

func TestDetectSave(t *testing.T) {
	snapshot := &model.FormSnapshot{Fields: []model.FieldObservation{{ID: "u"}, {ID: "e"}, {ID: "p"}, {ID: "p2"}}}
	result := model.Score{Fields: map[model.FieldID]model.ClassifiedField{
		"u":  {ID: "u", Hint: model.HintUsername},
		"e":  {ID: "e", Hint: model.HintEmail},
		"p":  {ID: "p", Hint: model.HintPassword},
		"p2": {ID: "p2", Hint: model.HintPassword},
	}}

	verdict := DetectSave(snapshot, result)
	assert.True(t, verdict.Offer)
	assert.Equal(t, []string{"password", "email_address", "username"}, verdict.Types)
	assert.Equal(t, []model.FieldID{"p", "e", "u"}, verdict.FieldIDs)
}

func TestDetectSave_NotLogin(t *testing.T) {
	tests := []struct {
		desc   string
		fields map[model.FieldID]model.ClassifiedField
	}{
		{"Password only", map[model.FieldID]model.ClassifiedField{"p": {ID: "p", Hint: model.HintPassword}}},
		{"Username only", map[model.FieldID]model.ClassifiedField{"u": {ID: "u", Hint: model.HintUsername}}},
		{"Card form", map[model.FieldID]model.ClassifiedField{
			"n": {ID: "n", Hint: model.HintCardNumber},
			"c": {ID: "c", Hint: model.HintCardSecurityCode},
		}},
		{"New login without saved types", map[model.FieldID]model.ClassifiedField{
			"u": {ID: "u", Hint: model.HintNewUsername},
			"p": {ID: "p", Hint: model.HintNewPassword},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			verdict := DetectSave(nil, model.Score{Fields: tt.fields})
			assert.False(t, verdict.Offer)
		})
	}
}

func TestFileVault_Load(t *testing.T) {
	dir := t.TempDir()

	_, err := (&FileVault{Path: filepath.Join(dir, "missing.json")}).Load(context.Background())
	assert.ErrorIs(t, err, ErrVaultLocked)

	path := filepath.Join(dir, "vault.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
credentials:
  - id: "1"
    name: Example
    login:
      username: alice
      password: hunter2
    uris: [https://example.com]
`), 0600))

	vault, err := (&FileVault{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, vault.Credentials, 1)
	assert.Equal(t, "hunter2", vault.Credentials[0].Login.Password)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&FileVault{Path: path}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeVault_JSON(t *testing.T) {
	vault, err := DecodeVault(bytes.NewBufferString(`{"credentials":[{"id":"1","card":{"number":"4111"}}]}`), ".json")
	require.NoError(t, err)
	assert.Equal(t, "4111", vault.Credentials[0].Card.Number)

	_, err = DecodeVault(bytes.NewBufferString(`{`), "")
	assert.Error(t, err)
}
