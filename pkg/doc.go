// Package pkg provides the core libraries for evotree, a tree of life built
// from the species a user adds.
//
// # Overview
//
// The pkg directory is organized into four main areas:
//
//  1. Domain: [taxon] (ranks, records, paths), [resolve] (name → taxon key),
//     [lineage] (key → main-rank path), [tree] (merge, normalize, DOT/SVG)
//  2. Infrastructure: [cache] (memory, file, redis, mongo), [store] (tree
//     persistence and debounced saves), [config], [observability]
//  3. Integrations: [integrations] (shared HTTP client) and
//     [integrations/gbif] (GBIF species API)
//  4. Orchestration: [pipeline] (preview and confirm) and [api] (HTTP)
//
// # Architecture
//
// The typical data flow through evotree:
//
//	"lion"
//	   ↓
//	[resolve] package (override, scientific, vernacular and broad stages)
//	   ↓
//	taxon key 5219404
//	   ↓
//	[lineage] package (parent chain, main ranks, inferred domain)
//	   ↓
//	Eukaryota / Animalia / ... / Panthera leo
//	   ↓
//	[tree] package (merge into the main tree) → [store] (debounced save)
//
// # Quick Start
//
//	client := gbif.NewClient(nil, 0)
//	runner := pipeline.NewRunner(
//	    resolve.New(client, resolve.Options{}),
//	    lineage.New(client, logger),
//	    logger,
//	)
//	st := store.New(cache.NewMemoryCache(), logger)
//	ws := pipeline.Open(ctx, runner, st, nil, logger)
//	defer ws.Close()
//
//	_, root, err := ws.Add(ctx, "lion")
//
// [taxon]: github.com/evotree/evotree/pkg/taxon
// [resolve]: github.com/evotree/evotree/pkg/resolve
// [lineage]: github.com/evotree/evotree/pkg/lineage
// [tree]: github.com/evotree/evotree/pkg/tree
// [cache]: github.com/evotree/evotree/pkg/cache
// [store]: github.com/evotree/evotree/pkg/store
// [config]: github.com/evotree/evotree/pkg/config
// [observability]: github.com/evotree/evotree/pkg/observability
// [integrations]: github.com/evotree/evotree/pkg/integrations
// [integrations/gbif]: github.com/evotree/evotree/pkg/integrations/gbif
// [pipeline]: github.com/evotree/evotree/pkg/pipeline
// [api]: github.com/evotree/evotree/pkg/api
package pkg
