package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/httputil"
)

func TestNewClient(t *testing.T) {
	c := cache.NewMemoryCache()
	headers := map[string]string{"User-Agent": "evotree-test"}
	client := NewClient(c, "test:", time.Hour, headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != cache.Cache(c) {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["User-Agent"] != "evotree-test" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.retry != httputil.NoRetry {
		t.Errorf("default retry = %+v, want NoRetry", client.retry)
	}
}

func TestNewClientNilBackend(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if !cache.IsNull(client.cache) {
		t.Error("nil backend should become a NullCache")
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", 0, nil).WithHTTPClient(server.Client())

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var override, custom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		override = r.Header.Get("X-Override")
		custom = r.Header.Get("X-Custom")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", 0, map[string]string{"X-Override": "default"})
	client.http = server.Client()

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL,
		map[string]string{"X-Override": "overridden", "X-Custom": "custom"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if override != "overridden" {
		t.Errorf("override header = %q, want %q", override, "overridden")
	}
	if custom != "custom" {
		t.Errorf("custom header = %q, want %q", custom, "custom")
	}
}

func TestClientGetMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer server.Close()

	client := NewClient(nil, "test:", 0, nil)
	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Get() error = %v, want ErrDecode", err)
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantIs    error
		retryable bool
	}{
		{"404", http.StatusNotFound, ErrNotFound, false},
		{"500", http.StatusInternalServerError, ErrNetwork, true},
		{"429", http.StatusTooManyRequests, ErrNetwork, true},
		{"400", http.StatusBadRequest, ErrNetwork, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			client := NewClient(nil, "test:", 0, nil)
			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientCached(t *testing.T) {
	client := NewClient(cache.NewMemoryCache(), "test:", time.Hour, nil)

	type testData struct {
		Value string `json:"value"`
	}
	fetchCount := 0
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			*v = testData{Value: "fetched"}
			return nil
		}
	}

	var first testData
	if err := client.Cached(context.Background(), "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second testData
	if err := client.Cached(context.Background(), "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q", second.Value)
	}

	var third testData
	_ = client.Cached(context.Background(), "key", true, &third, fetch(&third))
	if fetchCount != 2 {
		t.Errorf("refresh should bypass cache, fetch count = %d", fetchCount)
	}
}

func TestClientCachedDisabled(t *testing.T) {
	for name, client := range map[string]*Client{
		"zero ttl":   NewClient(cache.NewMemoryCache(), "test:", 0, nil),
		"null cache": NewClient(cache.NewNullCache(), "test:", time.Hour, nil),
	} {
		t.Run(name, func(t *testing.T) {
			count := 0
			var v string
			for range 2 {
				_ = client.Cached(context.Background(), "k", false, &v, func() error {
					count++
					v = "x"
					return nil
				})
			}
			if count != 2 {
				t.Errorf("fetch count = %d, want 2 with caching disabled", count)
			}
		})
	}
}

func TestClientCachedRetryPolicy(t *testing.T) {
	var calls atomic.Int32
	fail := func() error {
		calls.Add(1)
		return &httputil.RetryableError{Err: ErrNetwork}
	}

	var v string
	client := NewClient(nil, "test:", 0, nil)
	if err := client.Cached(context.Background(), "k", false, &v, fail); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("default policy made %d calls, want 1", calls.Load())
	}

	calls.Store(0)
	client.WithRetry(httputil.Policy{Attempts: 3, Delay: time.Millisecond})
	_ = client.Cached(context.Background(), "k", false, &v, fail)
	if calls.Load() != 3 {
		t.Errorf("3-attempt policy made %d calls", calls.Load())
	}
}

func TestURLEncode(t *testing.T) {
	if got := URLEncode("Panthera leo"); got != "Panthera+leo" {
		t.Errorf("URLEncode = %q", got)
	}
	if got := URLEncode("grey/wolf&x"); got != "grey%2Fwolf%26x" {
		t.Errorf("URLEncode = %q", got)
	}
}
