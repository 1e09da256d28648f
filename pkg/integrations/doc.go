// Package integrations provides HTTP clients for remote taxonomy services.
//
// # Overview
//
// The only service today is GBIF, in subpackage [gbif]. The [Client] type
// in this package holds what any such client needs:
//
//   - JSON GET requests with default headers
//   - status mapping: 404 to [ErrNotFound], 429 and 5xx to a retryable
//     [ErrNetwork], everything else to a plain [ErrNetwork]
//   - optional response caching in a [cache.Cache] under a namespace
//   - an [httputil.Policy] retry policy (one attempt by default)
//   - HTTP and cache events reported to [observability] hooks
//
// # Client Pattern
//
//	base := integrations.NewClient(backend, "gbif:", time.Hour, nil)
//	client := gbif.New(base, "https://api.gbif.org/v1")
//	rec, err := client.GetTaxon(ctx, 5219404)
//
// [gbif]: github.com/evotree/evotree/pkg/integrations/gbif
// [cache.Cache]: github.com/evotree/evotree/pkg/cache.Cache
// [httputil.Policy]: github.com/evotree/evotree/pkg/httputil.Policy
// [observability]: github.com/evotree/evotree/pkg/observability
package integrations
