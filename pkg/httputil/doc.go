// Package httputil provides retry helpers shared by the taxonomy-service
// client.
//
// Transient failures (network errors, 5xx and 429 responses) are wrapped in
// [RetryableError]; [Retry] re-runs the operation for those errors only,
// doubling the delay between attempts.
//
//	err := httputil.Policy{Attempts: 3, Delay: time.Second}.Retry(ctx, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// Resolution in evotree runs with [NoRetry] unless the configuration raises
// gbif.attempts, so a failed request surfaces to the user immediately.
package httputil
