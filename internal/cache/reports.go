package cache

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/formsense/internal/model"
)

// Reports stores scan reports in a byte cache
type Reports struct {
	cache Cache
}

// NewReports wraps c
func NewReports(c Cache) *Reports {
	return &Reports{cache: c}
}

// FromConfig builds the report cache described by cfg, or nil when caching
// is disabled
func FromConfig(cfg model.CacheConfig) *Reports {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewReports(NewMemoryCache(cfg.MemoryTTL, cfg.MemoryTTL))
	}
	return NewReports(NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL))
}

// Get returns the cached report for key. Undecodable entries are treated
// as misses.
func (r *Reports) Get(key string) (*model.Report, bool) {
	if r == nil {
		return nil, false
	}
	raw, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return &report, true
}

// Put stores report under key with the cache's default TTL
func (r *Reports) Put(key string, report *model.Report) error {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return r.cache.Set(key, raw, 0)
}
