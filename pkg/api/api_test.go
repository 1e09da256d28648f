package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/integrations/gbif/gbiftest"
	"github.com/evotree/evotree/pkg/lineage"
	"github.com/evotree/evotree/pkg/observability"
	"github.com/evotree/evotree/pkg/pipeline"
	"github.com/evotree/evotree/pkg/resolve"
	"github.com/evotree/evotree/pkg/store"
	"github.com/evotree/evotree/pkg/taxon"
	"github.com/evotree/evotree/pkg/tree"
)

type testEnv struct {
	srv  *httptest.Server
	gbif *gbiftest.Server
	ws   *pipeline.Workspace
	api  *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := gbiftest.NewServer()
	t.Cleanup(fake.Close)

	client := gbif.NewClient(nil, 0).WithBaseURL(fake.URL)
	runner := pipeline.NewRunner(resolve.New(client, resolve.Options{}), lineage.New(client, nil), nil)
	st := store.New(cache.NewMemoryCache(), nil)
	ws := pipeline.Open(context.Background(), runner, st, store.NewSaver(st, time.Hour, nil), nil)
	t.Cleanup(func() { _ = ws.Close() })

	metrics := observability.NewMetrics(nil)
	s := New(runner, ws, Options{Metrics: metrics.Handler()})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, gbif: fake, ws: ws, api: s}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("X-Request-ID = %q, want a uuid", resp.Header.Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got != id {
		t.Errorf("incoming id not kept: %q", got)
	}
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query  string
		status int
		code   string
	}{
		{"lion", http.StatusOK, ""},
		{"Panthera%20leo", http.StatusOK, ""},
		{"xyzzynotaspecies", http.StatusNotFound, "NOT_FOUND"},
		{"", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/v1/resolve?name="+tt.query, "")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.code == "" {
				res := decode[resolve.Resolution](t, resp)
				if res.Key != gbiftest.KeyPantheraLeo {
					t.Errorf("key = %d", res.Key)
				}
				return
			}
			e := decode[ErrorResponse](t, resp)
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if tt.code == "NOT_FOUND" && !strings.Contains(e.Hint, "Panthera leo") {
				t.Errorf("hint = %q", e.Hint)
			}
		})
	}
}

func TestLookupSurvivesClientDisconnect(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/v1/resolve?name=lion", "", http.StatusOK},
		{http.MethodGet, "/v1/lineage/5219404", "", http.StatusOK},
		{http.MethodPost, "/v1/previews", `{"name":"red fox"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)).WithContext(ctx)
			rec := httptest.NewRecorder()

			env.api.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestResolveRemoteFailure(t *testing.T) {
	env := newTestEnv(t)
	env.gbif.Fail("/species/search", http.StatusServiceUnavailable)

	resp := env.do(t, http.MethodGet, "/v1/resolve?name=lion", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if e := decode[ErrorResponse](t, resp); e.Code != "REMOTE_SERVICE" {
		t.Errorf("code = %q", e.Code)
	}
}

func TestLineage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/v1/lineage/5219404", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	path := decode[taxon.Path](t, resp)
	if len(path) != 8 || path[0].Name != "Eukaryota" {
		t.Errorf("path = %v", path.Names())
	}

	if resp := env.do(t, http.MethodGet, "/v1/lineage/abc", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad key status = %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/v1/lineage/123456789", ""); resp.StatusCode != http.StatusBadGateway {
		t.Errorf("unknown key status = %d", resp.StatusCode)
	}
}

func TestPreviewConfirmFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/v1/previews", `{"name":"lion"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	p := decode[pipeline.Preview](t, resp)
	if _, err := uuid.Parse(p.ID); err != nil {
		t.Fatalf("preview id %q is not a uuid", p.ID)
	}
	if !p.Matched || p.Species != "Panthera leo" || p.Tree == nil {
		t.Errorf("preview = %+v", p)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/previews/"+p.ID {
		t.Errorf("Location = %q", loc)
	}

	if resp := env.do(t, http.MethodGet, "/v1/previews/"+p.ID, ""); resp.StatusCode != http.StatusOK {
		t.Errorf("get preview status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/v1/previews/"+p.ID+"/confirm", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d", resp.StatusCode)
	}
	root := decode[tree.Node](t, resp)
	if root.Find(p.Path.Names()...) == nil {
		t.Error("confirmed tree lacks the lineage")
	}

	resp = env.do(t, http.MethodPost, "/v1/previews/"+p.ID+"/confirm", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second confirm status = %d", resp.StatusCode)
	}

	stats := decode[tree.Stats](t, env.do(t, http.MethodGet, "/v1/tree/stats", ""))
	if stats.Leaves != 1 || stats.Depth != 8 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestPreviewErrors(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(t, http.MethodPost, "/v1/previews", `{`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPost, "/v1/previews", `{"name":"xyzzynotaspecies"}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown species status = %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/v1/previews/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown preview status = %d", resp.StatusCode)
	}

	p := decode[pipeline.Preview](t, env.do(t, http.MethodPost, "/v1/previews", `{"name":"Panthera leo"}`))
	if resp := env.do(t, http.MethodDelete, "/v1/previews/"+p.ID, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("discard status = %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPost, "/v1/previews/"+p.ID+"/confirm", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("confirm after discard status = %d", resp.StatusCode)
	}
}

func TestTreeEndpoints(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.ws.Add(context.Background(), "red fox"); err != nil {
		t.Fatal(err)
	}

	root := decode[tree.Node](t, env.do(t, http.MethodGet, "/v1/tree", ""))
	if root.Name != "Life" || root.Find("Eukaryota", "Animalia") == nil {
		t.Errorf("tree = %+v", root)
	}

	resp := env.do(t, http.MethodGet, "/v1/tree?format=dot", "")
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
	var buf strings.Builder
	_, _ = io.Copy(&buf, resp.Body)
	if !strings.Contains(buf.String(), `label="Vulpes vulpes\n(Red Fox)"`) {
		t.Errorf("dot = %s", buf.String())
	}

	if resp := env.do(t, http.MethodGet, "/v1/tree?format=png", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad format status = %d", resp.StatusCode)
	}

	if resp := env.do(t, http.MethodDelete, "/v1/tree", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}
	root = decode[tree.Node](t, env.do(t, http.MethodGet, "/v1/tree", ""))
	if len(root.Children) != 0 {
		t.Error("tree not cleared")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
}
