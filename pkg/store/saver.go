package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evotree/evotree/pkg/tree"
)

// DefaultDebounce is the delay between the last mutation and the write.
const DefaultDebounce = 350 * time.Millisecond

// Saver writes the latest scheduled tree once no new tree has been
// scheduled for the debounce delay.
type Saver struct {
	store  *TreeStore
	delay  time.Duration
	logger *log.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *tree.Node

	saveMu sync.Mutex // serializes writes so they land in schedule order
}

// NewSaver creates a Saver. A non-positive delay uses [DefaultDebounce].
func NewSaver(store *TreeStore, delay time.Duration, logger *log.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Saver{store: store, delay: delay, logger: logger}
}

// Schedule queues a copy of root for saving and restarts the delay.
func (s *Saver) Schedule(root *tree.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = root.Clone()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.write(context.Background()); err != nil {
			s.logger.Warn("save tree", "err", err)
		}
	})
}

// Pending reports whether a scheduled tree has not been written yet.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush writes any pending tree immediately.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.write(ctx)
}

// Cancel drops any pending tree without writing it. A write already in
// progress finishes first.
func (s *Saver) Cancel() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

// Close flushes the pending tree.
func (s *Saver) Close() error {
	return s.Flush(context.Background())
}

func (s *Saver) write(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	root := s.pending
	s.pending = nil
	s.mu.Unlock()

	if root == nil {
		return nil
	}
	return s.store.Save(ctx, root)
}
