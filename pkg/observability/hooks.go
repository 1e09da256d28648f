// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through small hook interfaces; main decides which
// backend receives them. The defaults are no-ops, so packages can call hooks
// unconditionally and tests need no setup.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	observability.SetResolveHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Resolve().OnResolveStart(ctx, query)
//	// ... resolve ...
//	observability.Resolve().OnResolveComplete(ctx, query, stage, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from name resolution, lineage fetching and
// tree persistence.
type ResolveHooks interface {
	// OnResolveStart records the start of resolving a user query.
	OnResolveStart(ctx context.Context, query string)

	// OnResolveComplete records the outcome. stage names the strategy that
	// produced the key ("override", "scientific", "vernacular-animal", ...);
	// it is empty when resolution failed.
	OnResolveComplete(ctx context.Context, query, stage string, duration time.Duration, err error)

	// OnLineageComplete records a lineage fetch. depth is the number of
	// nodes in the resulting path.
	OnLineageComplete(ctx context.Context, depth int, duration time.Duration, err error)

	// OnTreeSave records a write of the persisted tree.
	OnTreeSave(ctx context.Context, nodes int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit. keyType is "alias", "http" or "tree".
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(context.Context, string) {}
func (NoopResolveHooks) OnResolveComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopResolveHooks) OnLineageComplete(context.Context, int, time.Duration, error) {}
func (NoopResolveHooks) OnTreeSave(context.Context, int, time.Duration, error)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// registry is replaced as a whole on every Set call; readers load it without
// locking.
type registry struct {
	resolve ResolveHooks
	cache   CacheHooks
	http    HTTPHooks
}

var (
	current atomic.Pointer[registry]
	setMu   sync.Mutex
)

func init() { Reset() }

func update(fn func(*registry)) {
	setMu.Lock()
	defer setMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetResolveHooks registers resolve hooks. A nil h is ignored.
func SetResolveHooks(h ResolveHooks) {
	if h != nil {
		update(func(r *registry) { r.resolve = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Resolve, Cache and HTTP return the registered hooks.
func Resolve() ResolveHooks { return current.Load().resolve }
func Cache() CacheHooks     { return current.Load().cache }
func HTTP() HTTPHooks       { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	setMu.Lock()
	defer setMu.Unlock()
	current.Store(&registry{
		resolve: NoopResolveHooks{},
		cache:   NoopCacheHooks{},
		http:    NoopHTTPHooks{},
	})
}
