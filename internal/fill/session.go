package fill

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultSessionTTL is how long an unlocked vault stays in memory
const DefaultSessionTTL = 10 * time.Second

const sessionKey = "vault"

// VaultLoader provides the unlocked vault. Implementations return
// ErrVaultLocked when the user has to authenticate first.
type VaultLoader interface {
	Load(ctx context.Context) (*Vault, error)
}

// SessionCache keeps the unlocked vault for a short window so that
// consecutive fill requests do not reload it
type SessionCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessionCache creates a session cache; ttl <= 0 selects DefaultSessionTTL
func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get returns the cached vault, if still fresh
func (s *SessionCache) Get() (*Vault, bool) {
	if v, found := s.cache.Get(sessionKey); found {
		return v.(*Vault), true
	}
	return nil, false
}

// Put stores the vault for the session TTL
func (s *SessionCache) Put(v *Vault) {
	s.cache.Set(sessionKey, v, s.ttl)
}

// Lock drops the cached vault
func (s *SessionCache) Lock() {
	s.cache.Delete(sessionKey)
}

// CachedLoader serves the vault from a session cache, falling back to the
// wrapped loader
type CachedLoader struct {
	loader  VaultLoader
	session *SessionCache
}

// NewCachedLoader wraps loader with session
func NewCachedLoader(loader VaultLoader, session *SessionCache) *CachedLoader {
	return &CachedLoader{loader: loader, session: session}
}

// Load implements VaultLoader
func (c *CachedLoader) Load(ctx context.Context) (*Vault, error) {
	if v, ok := c.session.Get(); ok {
		return v, nil
	}
	v, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.session.Put(v)
	return v, nil
}
