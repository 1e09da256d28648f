package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/observability"
	"github.com/evotree/evotree/pkg/tree"
)

// DefaultKey is the key the main tree is stored under.
const DefaultKey = "evotree_main_tree_v1"

// TreeStore loads and saves one tree.
type TreeStore struct {
	backend cache.Cache
	keyer   cache.Keyer
	name    string
	logger  *log.Logger
}

// New creates a TreeStore over backend. A nil backend keeps nothing.
func New(backend cache.Cache, logger *log.Logger) *TreeStore {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TreeStore{
		backend: backend,
		keyer:   cache.NewDefaultKeyer(),
		name:    DefaultKey,
		logger:  logger,
	}
}

// WithKey stores the tree under name instead of [DefaultKey].
func (s *TreeStore) WithKey(name string) *TreeStore {
	if name != "" {
		s.name = name
	}
	return s
}

// WithKeyer sets the keyer used to build the storage key.
func (s *TreeStore) WithKeyer(k cache.Keyer) *TreeStore {
	if k != nil {
		s.keyer = k
	}
	return s
}

// Key returns the storage key.
func (s *TreeStore) Key() string { return s.keyer.TreeKey(s.name) }

// Load returns the stored tree after legacy normalization. A missing entry
// gives an empty tree and no error. An unreadable entry gives an empty tree
// and a PERSISTENCE error.
func (s *TreeStore) Load(ctx context.Context) (*tree.Node, error) {
	hooks := observability.Cache()
	data, hit, err := s.backend.Get(ctx, s.Key())
	if err != nil {
		return tree.New(), errors.Wrap(errors.ErrCodePersistence, err, "load tree")
	}
	if !hit {
		hooks.OnCacheMiss(ctx, "tree")
		return tree.New(), nil
	}
	hooks.OnCacheHit(ctx, "tree")

	root, err := tree.Decode(data)
	if err != nil {
		return tree.New(), errors.Wrap(errors.ErrCodePersistence, err, "load tree")
	}
	return tree.NormalizeLegacy(root), nil
}

// Save writes root.
func (s *TreeStore) Save(ctx context.Context, root *tree.Node) (err error) {
	start := time.Now()
	nodes := root.Stats().Nodes
	defer func() {
		observability.Resolve().OnTreeSave(ctx, nodes, time.Since(start), err)
	}()

	data, err := root.Encode()
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "encode tree")
	}
	if err := s.backend.Set(ctx, s.Key(), data, 0); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "save tree")
	}
	observability.Cache().OnCacheSet(ctx, "tree", len(data))
	s.logger.Debug("tree saved", "key", s.Key(), "nodes", nodes, "bytes", len(data))
	return nil
}

// Clear deletes the stored tree.
func (s *TreeStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.Key()); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "clear tree")
	}
	return nil
}
