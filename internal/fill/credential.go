// Package fill is the host side of autofill: it matches vault credentials
// to a classified form, builds the datasets offered to the user, decides
// whether a submitted form can be saved and keeps the unlocked vault in a
// short-lived session cache.
package fill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Login holds website or app sign-in data
type Login struct {
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	TOTP     string `json:"totp,omitempty" yaml:"totp,omitempty"` // Base32 secret or otpauth:// URI
}

// Card holds payment card data
type Card struct {
	Cardholder string `json:"cardholder,omitempty" yaml:"cardholder,omitempty"`
	Number     string `json:"number,omitempty" yaml:"number,omitempty"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	ExpMonth   string `json:"exp_month,omitempty" yaml:"exp_month,omitempty"`
	ExpYear    string `json:"exp_year,omitempty" yaml:"exp_year,omitempty"`
}

// Identity holds personal data
type Identity struct {
	FirstName  string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	Address1   string `json:"address1,omitempty" yaml:"address1,omitempty"`
	Address2   string `json:"address2,omitempty" yaml:"address2,omitempty"`
}

// Credential is one vault item
type Credential struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Login    *Login    `json:"login,omitempty" yaml:"login,omitempty"`
	Card     *Card     `json:"card,omitempty" yaml:"card,omitempty"`
	Identity *Identity `json:"identity,omitempty" yaml:"identity,omitempty"`
	URIs     []string  `json:"uris,omitempty" yaml:"uris,omitempty"` // https://host/..., bare hosts or androidapp://<package>
	Deleted  bool      `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// Vault is an unlocked set of credentials
type Vault struct {
	Credentials []Credential `json:"credentials" yaml:"credentials"`
}

// ErrVaultLocked means the vault is not available unlocked; the user has
// to authenticate first
var ErrVaultLocked = errors.New("vault is locked")

// FileVault reads an exported vault from disk. A missing file is treated as
// a locked vault.
type FileVault struct {
	Path string
}

// Load reads the vault file
func (v *FileVault) Load(ctx context.Context) (*Vault, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(v.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrVaultLocked
		}
		return nil, fmt.Errorf("open vault: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeVault(f, filepath.Ext(v.Path))
}

// DecodeVault reads a vault in JSON, or YAML when ext is .yaml or .yml
func DecodeVault(r io.Reader, ext string) (*Vault, error) {
	var vault Vault
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&vault); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode vault: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&vault); err != nil {
			return nil, fmt.Errorf("decode vault: %w", err)
		}
	}
	return &vault, nil
}
