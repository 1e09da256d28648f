// Package gbiftest provides an in-process fake of the GBIF species API for
// tests.
//
//	srv := gbiftest.NewServer()
//	defer srv.Close()
//	client := gbif.NewClient(nil, 0).WithBaseURL(srv.URL)
//
// The fake holds a small backbone (lion, house cat, dog, red fox, grey wolf,
// a few distractors) and answers match, search, taxon and vernacular-name
// requests from it. Add taxa with [Server.Add] and inject failures with
// [Server.Fail].
package gbiftest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/taxon"
)

// Taxon is one fixture name usage.
type Taxon struct {
	Key        int64
	Name       string // canonical name
	Author     string // appended to form the scientific name
	Rank       taxon.Rank
	Status     string // defaults to ACCEPTED
	Kingdom    string
	Parent     int64
	Vernacular string
	Aliases    []gbif.VernacularName
}

func (t Taxon) scientificName() string {
	if t.Author == "" {
		return t.Name
	}
	return t.Name + " " + t.Author
}

func (t Taxon) status() string {
	if t.Status == "" {
		return taxon.StatusAccepted
	}
	return t.Status
}

// Server is a fake GBIF API backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	taxa     map[int64]Taxon
	order    []int64
	failures map[string]int
	requests []string
}

// NewServer starts a fake loaded with [Backbone].
func NewServer() *Server {
	s := &Server{
		taxa:     make(map[int64]Taxon),
		failures: make(map[string]int),
	}
	for _, t := range Backbone() {
		s.Add(t)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Add inserts or replaces a taxon.
func (s *Server) Add(t Taxon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.taxa[t.Key]; !ok {
		s.order = append(s.order, t.Key)
	}
	s.taxa[t.Key] = t
}

// Fail makes every request whose path starts with prefix answer status.
// A zero status removes the failure.
func (s *Server) Fail(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, prefix)
		return
	}
	s.failures[prefix] = status
}

// Requests returns the request URIs seen so far, path and query.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// CountPrefix returns how many requests started with prefix.
func (s *Server) CountPrefix(prefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	for prefix, status := range s.failures {
		if strings.HasPrefix(r.URL.Path, prefix) {
			s.mu.Unlock()
			w.WriteHeader(status)
			return
		}
	}
	s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/species")
	switch {
	case path == "/match":
		s.match(w, r)
	case path == "/search":
		s.search(w, r)
	case strings.HasSuffix(path, "/vernacularNames"):
		s.vernacular(w, r, strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/vernacularNames"))
	case strings.HasPrefix(path, "/"):
		s.get(w, strings.TrimPrefix(path, "/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) lookup(raw string) (Taxon, bool) {
	key, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Taxon{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.taxa[key]
	return t, ok
}

func (s *Server) get(w http.ResponseWriter, raw string) {
	t, ok := s.lookup(raw)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, toJSON(t))
}

// match mimics the backbone matcher: an exact canonical-name hit returns the
// key of the nearest SPECIES at or above the usage.
func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("name")))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range s.order {
		t := s.taxa[key]
		if strings.ToLower(t.Name) != name {
			continue
		}
		for cur, ok := t, true; ok; cur, ok = s.taxa[cur.Parent] {
			if cur.Rank == taxon.Species {
				writeJSON(w, gbif.Match{SpeciesKey: cur.Key, MatchType: "EXACT", Confidence: 99})
				return
			}
		}
		writeJSON(w, gbif.Match{MatchType: "HIGHERRANK", Confidence: 90})
		return
	}
	writeJSON(w, gbif.Match{MatchType: "NONE"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	needle := taxon.NormalizeName(q.Get("q"))
	vernacularOnly := q.Get("qField") == gbif.QFieldVernacular
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	var results []map[string]any
	for _, key := range s.order {
		t := s.taxa[key]
		if rank := q.Get("rank"); rank != "" && string(t.Rank) != rank {
			continue
		}
		if status := q.Get("status"); status != "" && t.status() != status {
			continue
		}
		if q.Get("kingdomKey") == "1" && t.Kingdom != "Animalia" {
			continue
		}
		if needle == "" || !matches(t, needle, vernacularOnly) {
			continue
		}
		results = append(results, toJSON(t))
		if len(results) == limit {
			break
		}
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"offset":       0,
		"limit":        limit,
		"endOfRecords": true,
		"results":      results,
	})
}

func matches(t Taxon, needle string, vernacularOnly bool) bool {
	names := []string{t.Vernacular}
	for _, a := range t.Aliases {
		names = append(names, a.VernacularName)
	}
	if !vernacularOnly {
		names = append(names, t.Name, t.scientificName())
	}
	for _, n := range names {
		if n != "" && strings.Contains(taxon.NormalizeName(n), needle) {
			return true
		}
	}
	return false
}

func (s *Server) vernacular(w http.ResponseWriter, r *http.Request, raw string) {
	t, ok := s.lookup(raw)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	all := t.Aliases
	end := min(offset+limit, len(all))
	page := []gbif.VernacularName{}
	if offset < len(all) {
		page = all[offset:end]
	}
	writeJSON(w, gbif.VernacularPage{
		Offset:       offset,
		Limit:        limit,
		EndOfRecords: end >= len(all),
		Results:      page,
	})
}

func toJSON(t Taxon) map[string]any {
	m := map[string]any{
		"key":             t.Key,
		"canonicalName":   t.Name,
		"scientificName":  t.scientificName(),
		"rank":            string(t.Rank),
		"taxonomicStatus": t.status(),
		"kingdom":         t.Kingdom,
	}
	if t.Parent != 0 {
		m["parentKey"] = t.Parent
	}
	if t.Vernacular != "" {
		m["vernacularName"] = t.Vernacular
	}
	return m
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
