package resolve

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/observability"
	"github.com/evotree/evotree/pkg/taxon"
)

// DefaultEnrichLimit is how many top candidates get alias enrichment.
const DefaultEnrichLimit = 8

const (
	scientificSearchLimit = 50
	commonSearchLimit     = 100
)

// Service is the part of the taxonomy service the resolver needs.
// *gbif.Client implements it.
type Service interface {
	VernacularSource
	MatchByName(ctx context.Context, name string) (gbif.Match, error)
	SearchSpecies(ctx context.Context, q string, p gbif.SearchParams) ([]taxon.Record, error)
}

// Stage names the strategy that produced a key.
type Stage string

const (
	StageOverride         Stage = "override"
	StageScientific       Stage = "scientific"
	StageVernacularAnimal Stage = "vernacular-animal"
	StageVernacularAny    Stage = "vernacular-any"
	StageBroadAnimal      Stage = "broad-animal"
	StageBroadAny         Stage = "broad-any"
)

// Resolution is a successful resolution.
type Resolution struct {
	Key   int64  `json:"key"`
	Stage Stage  `json:"stage"`
	Query string `json:"query"` // name actually sent to the service
}

// DefaultOverrides maps everyday words whose vernacular search is noisy to
// a scientific name. Keys are trimmed and lower-cased input.
var DefaultOverrides = map[string]string{
	"cat":  "Felis catus",
	"cats": "Felis catus",
	"dog":  "Canis lupus familiaris",
	"dogs": "Canis lupus familiaris",
}

// Options configures a Resolver. The zero value is usable.
type Options struct {
	// Aliases caches vernacular-name lists; nil creates an in-memory cache.
	Aliases *AliasCache
	// Overrides replaces DefaultOverrides when non-nil.
	Overrides map[string]string
	// EnrichLimit caps alias enrichment; 0 means DefaultEnrichLimit.
	EnrichLimit int
	Logger      *log.Logger
}

// Resolver maps species names to taxon keys. It is safe for concurrent use.
type Resolver struct {
	svc         Service
	aliases     *AliasCache
	overrides   map[string]string
	enrichLimit int
	logger      *log.Logger
}

// New creates a resolver over svc.
func New(svc Service, opts Options) *Resolver {
	if opts.Aliases == nil {
		opts.Aliases = NewAliasCache(nil, 0)
	}
	if opts.Overrides == nil {
		opts.Overrides = DefaultOverrides
	}
	if opts.EnrichLimit <= 0 {
		opts.EnrichLimit = DefaultEnrichLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Resolver{
		svc:         svc,
		aliases:     opts.Aliases,
		overrides:   opts.Overrides,
		enrichLimit: opts.EnrichLimit,
		logger:      opts.Logger,
	}
}

// Resolve finds the taxon key for name.
//
// Errors carry a code from package errors: INVALID_INPUT for an empty name,
// REMOTE_SERVICE when a match or search call fails, NOT_FOUND when every
// stage comes up empty.
func (r *Resolver) Resolve(ctx context.Context, name string) (res Resolution, err error) {
	name, err = errors.ValidateSpeciesName(name)
	if err != nil {
		return Resolution{}, err
	}

	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, name)
	start := time.Now()
	defer func() {
		hooks.OnResolveComplete(ctx, name, string(res.Stage), time.Since(start), err)
	}()

	res, ok, err := r.resolve(ctx, name)
	if err != nil {
		return Resolution{}, errors.Wrap(errors.ErrCodeRemoteService, err, "resolve %q", name)
	}
	if !ok {
		r.logger.Debug("no match", "name", name)
		return Resolution{}, errors.New(errors.ErrCodeNotFound, "no species matches %q", name)
	}
	r.logger.Debug("resolved", "name", name, "key", res.Key, "stage", res.Stage)
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, name string) (Resolution, bool, error) {
	if target, ok := r.overrides[strings.ToLower(name)]; ok {
		r.logger.Debug("override", "name", name, "target", target)
		key, err := r.scientificKey(ctx, target)
		return Resolution{Key: key, Stage: StageOverride, Query: target}, key != 0, err
	}

	if IsScientificName(name) {
		key, err := r.scientificKey(ctx, name)
		return Resolution{Key: key, Stage: StageScientific, Query: name}, key != 0, err
	}

	if variants := Variants(name); len(variants) > 0 {
		for _, stage := range []struct {
			stage   Stage
			kingdom int
		}{
			{StageVernacularAnimal, gbif.AnimaliaKey},
			{StageVernacularAny, 0},
		} {
			key, err := r.vernacularKey(ctx, variants, stage.kingdom)
			if err != nil || key != 0 {
				return Resolution{Key: key, Stage: stage.stage, Query: name}, key != 0, err
			}
		}
	}

	for _, stage := range []struct {
		stage   Stage
		kingdom int
	}{
		{StageBroadAnimal, gbif.AnimaliaKey},
		{StageBroadAny, 0},
	} {
		r.logger.Debug("broad search", "name", name, "kingdomKey", stage.kingdom)
		recs, err := r.svc.SearchSpecies(ctx, name, gbif.SearchParams{
			Rank:       taxon.Species,
			Status:     taxon.StatusAccepted,
			KingdomKey: stage.kingdom,
			Limit:      commonSearchLimit,
		})
		if err != nil {
			return Resolution{}, false, err
		}
		if key, ok := PickBestSearchKey(recs, name, ScoreOptions{PreferCommonAnimal: true}); ok {
			return Resolution{Key: key, Stage: stage.stage, Query: name}, true, nil
		}
	}
	return Resolution{}, false, nil
}

// scientificKey runs the match endpoint, then a narrow and a broad search.
func (r *Resolver) scientificKey(ctx context.Context, name string) (int64, error) {
	m, err := r.svc.MatchByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if key := m.Key(); key != 0 {
		r.logger.Debug("direct match", "name", name, "key", key, "matchType", m.MatchType)
		return key, nil
	}

	for _, p := range []gbif.SearchParams{
		{Rank: taxon.Species, Status: taxon.StatusAccepted, Limit: scientificSearchLimit},
		{Limit: scientificSearchLimit},
	} {
		recs, err := r.svc.SearchSpecies(ctx, name, p)
		if err != nil {
			return 0, err
		}
		if key, ok := PickExactScientificKey(recs, name); ok {
			return key, nil
		}
	}
	return 0, nil
}

// vernacularKey searches every variant among vernacular names, unions the
// results by key in first-seen order and picks an alias-enriched winner.
func (r *Resolver) vernacularKey(ctx context.Context, variants []string, kingdom int) (int64, error) {
	seen := make(map[int64]bool)
	var union []taxon.Record
	for _, v := range variants {
		recs, err := r.svc.SearchSpecies(ctx, v, gbif.SearchParams{
			QField:     gbif.QFieldVernacular,
			Rank:       taxon.Species,
			Status:     taxon.StatusAccepted,
			KingdomKey: kingdom,
			Limit:      commonSearchLimit,
		})
		if err != nil {
			return 0, err
		}
		for _, rec := range recs {
			if rec.Usable() && !seen[rec.Key] {
				seen[rec.Key] = true
				union = append(union, rec)
			}
		}
	}
	r.logger.Debug("vernacular candidates", "variants", variants, "kingdomKey", kingdom, "count", len(union))

	key, _ := r.pickWithAliases(ctx, union, variants)
	return key, nil
}

// pickWithAliases ranks candidates by ScoreCommonCandidate, adds alias
// scores to the top enrichLimit concurrently and accepts the new leader if
// it reaches MinCommonScore.
func (r *Resolver) pickWithAliases(ctx context.Context, records []taxon.Record, variants []string) (int64, bool) {
	ranked := rank(records, func(rec taxon.Record) int { return ScoreCommonCandidate(rec, variants) })
	if len(ranked) == 0 {
		return 0, false
	}
	top := ranked[:min(r.enrichLimit, len(ranked))]

	var g errgroup.Group
	for i := range top {
		g.Go(func() error {
			names, err := r.aliases.Lookup(ctx, r.svc, top[i].rec.Key)
			if err != nil {
				r.logger.Debug("alias lookup failed",
					"key", top[i].rec.Key,
					"err", errors.Wrap(errors.ErrCodeEnrichmentLookup, err, "aliases for %d", top[i].rec.Key))
				return nil
			}
			top[i].score += ScoreAliasList(AliasPool(names), variants)
			return nil
		})
	}
	// Lookup failures only cost a candidate its alias bonus.
	g.Wait()

	slices.SortStableFunc(top, func(a, b scored) int { return cmp.Compare(b.score, a.score) })
	winner := top[0]
	r.logger.Debug("vernacular winner", "key", winner.rec.Key, "name", winner.rec.CanonicalName, "score", winner.score)
	if winner.score < MinCommonScore {
		return 0, false
	}
	return winner.rec.Key, true
}
