package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/evotree/evotree/pkg/lineage"
	"github.com/evotree/evotree/pkg/resolve"
	"github.com/evotree/evotree/pkg/taxon"
	"github.com/evotree/evotree/pkg/tree"
)

// Runner resolves names and builds preview trees.
//
// The Runner is stateless apart from its collaborators; several goroutines
// may share one.
type Runner struct {
	Resolver *resolve.Resolver
	Lineage  *lineage.Fetcher
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(r *resolve.Resolver, f *lineage.Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Resolver: r, Lineage: f, Logger: logger}
}

// Preview is a resolved lineage waiting for confirmation.
type Preview struct {
	ID         string             `json:"id"`
	Input      string             `json:"input"`
	Resolution resolve.Resolution `json:"resolution"`
	Path       taxon.Path         `json:"path"`
	Tree       *tree.Node         `json:"tree"`
	// Species is the name of the path's leaf.
	Species    string `json:"species"`
	CommonName string `json:"commonName,omitempty"`
	// Matched is set when Species differs from the input, for example
	// "lion" resolving to "Panthera leo".
	Matched bool `json:"matched"`
}

// Stats records how long each stage took.
type Stats struct {
	ResolveTime time.Duration
	LineageTime time.Duration
}

// Resolve maps a name to a taxon key.
func (r *Runner) Resolve(ctx context.Context, name string) (resolve.Resolution, error) {
	return r.Resolver.Resolve(ctx, name)
}

// FetchLineage fetches the main-rank path for key.
func (r *Runner) FetchLineage(ctx context.Context, key int64) (taxon.Path, error) {
	return r.Lineage.Fetch(ctx, key)
}

// Preview resolves name, fetches its lineage and merges it into an empty
// tree.
func (r *Runner) Preview(ctx context.Context, name string) (*Preview, error) {
	p, _, err := r.PreviewWithStats(ctx, name)
	return p, err
}

// PreviewWithStats is [Runner.Preview] plus stage timings.
func (r *Runner) PreviewWithStats(ctx context.Context, name string) (*Preview, Stats, error) {
	var stats Stats

	start := time.Now()
	res, err := r.Resolver.Resolve(ctx, name)
	if err != nil {
		return nil, stats, err
	}
	stats.ResolveTime = time.Since(start)
	r.Logger.Info("resolved species",
		"name", strings.TrimSpace(name),
		"key", res.Key,
		"stage", res.Stage,
		"duration", stats.ResolveTime)

	start = time.Now()
	path, err := r.Lineage.Fetch(ctx, res.Key)
	if err != nil {
		return nil, stats, err
	}
	stats.LineageTime = time.Since(start)
	r.Logger.Info("fetched lineage",
		"key", res.Key,
		"ranks", len(path),
		"duration", stats.LineageTime)

	p := &Preview{
		ID:         uuid.NewString(),
		Input:      strings.TrimSpace(name),
		Resolution: res,
		Path:       path,
		Tree:       tree.Merge(tree.New(), path),
	}
	if leaf, ok := path.Leaf(); ok {
		p.Species = leaf.Name
		p.CommonName = leaf.CommonName
		p.Matched = !strings.EqualFold(leaf.Name, p.Input)
	}
	return p, stats, nil
}
