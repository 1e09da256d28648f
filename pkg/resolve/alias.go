package resolve

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/observability"
	"github.com/evotree/evotree/pkg/taxon"
)

const (
	aliasPageSize = 100
	aliasMaxPages = 3
)

// VernacularSource pages through the vernacular names of a taxon.
type VernacularSource interface {
	VernacularNames(ctx context.Context, key int64, limit, offset int) (gbif.VernacularPage, error)
}

// AliasCache keeps each taxon's vernacular-name list, keyed by taxon key.
//
// Entries are stored in a [cache.Cache] so several resolvers (or server
// replicas sharing redis) can reuse lookups. Concurrent lookups of the same
// key before the first completes may both hit the service. A zero TTL keeps
// entries for the lifetime of the backend.
type AliasCache struct {
	backend cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
}

// NewAliasCache creates an alias cache over backend. A nil backend gets a
// fresh [cache.MemoryCache].
func NewAliasCache(backend cache.Cache, ttl time.Duration) *AliasCache {
	if backend == nil {
		backend = cache.NewMemoryCache()
	}
	return &AliasCache{backend: backend, keyer: cache.NewDefaultKeyer(), ttl: ttl}
}

// WithKeyer replaces the keyer used to build cache keys.
func (c *AliasCache) WithKeyer(k cache.Keyer) *AliasCache {
	if k != nil {
		c.keyer = k
	}
	return c
}

// Lookup returns the vernacular names of key, fetching up to three pages
// of 100 from src on a miss. Failed fetches are not cached.
func (c *AliasCache) Lookup(ctx context.Context, src VernacularSource, key int64) ([]gbif.VernacularName, error) {
	hooks := observability.Cache()
	ck := c.keyer.AliasKey(key)

	if data, ok, err := c.backend.Get(ctx, ck); err == nil && ok {
		var names []gbif.VernacularName
		if json.Unmarshal(data, &names) == nil {
			hooks.OnCacheHit(ctx, "alias")
			return names, nil
		}
	}
	hooks.OnCacheMiss(ctx, "alias")

	names, err := fetchAliases(ctx, src, key)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(names); err == nil {
		if c.backend.Set(ctx, ck, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, "alias", len(data))
		}
	}
	return names, nil
}

func fetchAliases(ctx context.Context, src VernacularSource, key int64) ([]gbif.VernacularName, error) {
	all := []gbif.VernacularName{}
	offset := 0
	for range aliasMaxPages {
		page, err := src.VernacularNames(ctx, key, aliasPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if page.EndOfRecords || len(page.Results) == 0 {
			break
		}
		step := page.Limit
		if step <= 0 {
			step = aliasPageSize
		}
		offset += step
	}
	return all, nil
}

// isEnglish accepts untagged names and any tag starting with "en" ("eng",
// "en", "en-GB").
func isEnglish(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	return lang == "" || strings.HasPrefix(lang, "en")
}

// AliasPool normalizes names for scoring. English (or untagged) names are
// used when there are any; otherwise every name is.
func AliasPool(names []gbif.VernacularName) []string {
	var preferred, all []string
	for _, n := range names {
		v := taxon.NormalizeName(n.VernacularName)
		if v == "" {
			continue
		}
		all = append(all, v)
		if isEnglish(n.Language) {
			preferred = append(preferred, v)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return all
}
