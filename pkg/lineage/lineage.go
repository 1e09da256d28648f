package lineage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/observability"
	"github.com/evotree/evotree/pkg/taxon"
)

// MaxDepth bounds the parent walk. Real backbones are far shallower; a
// longer chain means the service returned a loop.
const MaxDepth = 64

// Source fetches single taxon records. *gbif.Client implements it.
type Source interface {
	GetTaxon(ctx context.Context, key int64) (taxon.Record, error)
}

// Fetcher builds lineage paths. It is safe for concurrent use.
type Fetcher struct {
	src    Source
	logger *log.Logger
}

// New creates a Fetcher over src. A nil logger uses log.Default().
func New(src Source, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{src: src, logger: logger}
}

// Fetch returns the main-rank path for key, ordered DOMAIN..SPECIES.
// Any failure along the chain, including a missing parent, is a
// REMOTE_SERVICE error.
func (f *Fetcher) Fetch(ctx context.Context, key int64) (path taxon.Path, err error) {
	start := time.Now()
	defer func() {
		observability.Resolve().OnLineageComplete(ctx, len(path), time.Since(start), err)
	}()

	raw, err := f.chain(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRemoteService, err, "lineage for %d", key)
	}
	path = FilterMainRanks(raw)
	f.logger.Debug("lineage", "key", key, "raw", len(raw), "path", strings.Join(path.Names(), " > "))
	return path, nil
}

// chain returns every record from the root down to key.
func (f *Fetcher) chain(ctx context.Context, key int64) (taxon.Path, error) {
	var raw taxon.Path
	seen := make(map[int64]bool)
	for cur := key; cur != 0; {
		if seen[cur] || len(raw) >= MaxDepth {
			return nil, fmt.Errorf("parent chain of %d does not terminate (at %d)", key, cur)
		}
		seen[cur] = true

		rec, err := f.src.GetTaxon(ctx, cur)
		if err != nil {
			return nil, err
		}
		node := taxon.Node{
			Name: rec.DisplayName(),
			Rank: rec.Rank,
			Key:  taxon.FormatKey(cur),
		}
		if rec.Rank == taxon.Species {
			node.CommonName = strings.TrimSpace(rec.VernacularName)
		}
		raw = append(raw, node)
		cur = rec.ParentKey
	}
	slices.Reverse(raw)
	return raw, nil
}

// FilterMainRanks reduces a root-first chain to the main ranks. The first
// node seen for a rank wins. Without a DOMAIN node one is inferred from the
// KINGDOM name when the kingdom is known to [taxon.DomainForKingdom].
func FilterMainRanks(raw taxon.Path) taxon.Path {
	byRank := make(map[taxon.Rank]taxon.Node, len(taxon.MainRanks))
	for _, n := range raw {
		if !n.Rank.IsMain() {
			continue
		}
		if _, dup := byRank[n.Rank]; !dup {
			byRank[n.Rank] = n
		}
	}

	if _, ok := byRank[taxon.Domain]; !ok {
		if k, ok := byRank[taxon.Kingdom]; ok {
			if d, ok := taxon.DomainForKingdom(k.Name); ok {
				byRank[taxon.Domain] = taxon.Node{Name: d, Rank: taxon.Domain, Key: InferredDomainKey(d)}
			}
		}
	}

	path := make(taxon.Path, 0, len(byRank))
	for _, r := range taxon.MainRanks {
		if n, ok := byRank[r]; ok {
			path = append(path, n)
		}
	}
	return path
}

// InferredDomainKey is the key given to a synthesized DOMAIN node.
func InferredDomainKey(domain string) string {
	return "inferred-domain-" + strings.ToLower(strings.TrimSpace(domain))
}
