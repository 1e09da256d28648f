package pipeline

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/store"
	"github.com/evotree/evotree/pkg/tree"
)

// MaxPreviews bounds how many unconfirmed previews a Workspace keeps. The
// oldest is dropped first.
const MaxPreviews = 64

// Workspace holds the main tree and the previews waiting for confirmation.
// It is safe for concurrent use.
type Workspace struct {
	runner *Runner
	store  *store.TreeStore
	saver  *store.Saver
	logger *log.Logger

	mu       sync.Mutex
	main     *tree.Node
	previews map[string]*Preview
	order    []string
}

// Open loads the main tree from st and returns a workspace over it. A
// failed load is logged and leaves an empty tree.
func Open(ctx context.Context, runner *Runner, st *store.TreeStore, saver *store.Saver, logger *log.Logger) *Workspace {
	if logger == nil {
		logger = log.Default()
	}
	if saver == nil {
		saver = store.NewSaver(st, 0, logger)
	}
	root, err := st.Load(ctx)
	if err != nil {
		logger.Warn("could not load saved tree, starting empty", "err", err)
	}
	return &Workspace{
		runner:   runner,
		store:    st,
		saver:    saver,
		logger:   logger,
		main:     root,
		previews: make(map[string]*Preview),
	}
}

// Tree returns a copy of the main tree.
func (w *Workspace) Tree() *tree.Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.main.Clone()
}

// Preview resolves name and keeps the result until it is confirmed or
// discarded.
func (w *Workspace) Preview(ctx context.Context, name string) (*Preview, error) {
	p, err := w.runner.Preview(ctx, name)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.previews[p.ID] = p
	w.order = append(w.order, p.ID)
	for len(w.order) > MaxPreviews {
		delete(w.previews, w.order[0])
		w.order = w.order[1:]
	}
	return p, nil
}

// PreviewByID returns a pending preview.
func (w *Workspace) PreviewByID(id string) (*Preview, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.previews[id]
	return p, ok
}

// Confirm merges a preview into the main tree, schedules a save and
// returns a copy of the updated tree.
func (w *Workspace) Confirm(id string) (*tree.Node, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.previews[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no pending preview %q", id)
	}
	w.dropLocked(id)

	tree.Merge(w.main, p.Path)
	w.saver.Schedule(w.main)
	w.logger.Info("added to tree", "species", p.Species, "nodes", w.main.Stats().Nodes)
	return w.main.Clone(), nil
}

// Add previews name and confirms it in one step.
func (w *Workspace) Add(ctx context.Context, name string) (*Preview, *tree.Node, error) {
	p, err := w.Preview(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	root, err := w.Confirm(p.ID)
	return p, root, err
}

// Discard forgets a preview.
func (w *Workspace) Discard(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropLocked(id)
}

func (w *Workspace) dropLocked(id string) {
	if _, ok := w.previews[id]; !ok {
		return
	}
	delete(w.previews, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Normalize applies the legacy domain-grouping repair to the main tree and
// schedules a save.
func (w *Workspace) Normalize() *tree.Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.main = tree.NormalizeLegacy(w.main)
	w.saver.Schedule(w.main)
	return w.main.Clone()
}

// Clear empties the main tree and deletes the saved copy.
func (w *Workspace) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saver.Cancel()
	w.main = tree.New()
	return w.store.Clear(ctx)
}

// Flush writes any pending save now.
func (w *Workspace) Flush(ctx context.Context) error {
	return w.saver.Flush(ctx)
}

// Close flushes pending saves.
func (w *Workspace) Close() error {
	return w.saver.Close()
}
