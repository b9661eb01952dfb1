package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key for a scan subject. The parts that change
// the outcome of a scan (vocabulary, policy) are folded into the key so a
// configuration change never serves a stale report.
func CacheKey(subject string, variant ...string) string {
	h := sha256.New()
	h.Write([]byte(subject))
	for _, v := range variant {
		h.Write([]byte{0})
		h.Write([]byte(v))
	}
	return "formsense:v1:" + hex.EncodeToString(h.Sum(nil))
}
