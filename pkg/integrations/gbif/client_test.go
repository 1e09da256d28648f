package gbif_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/integrations"
	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/integrations/gbif/gbiftest"
	"github.com/evotree/evotree/pkg/taxon"
)

func testClient(t *testing.T) (*gbif.Client, *gbiftest.Server) {
	t.Helper()
	srv := gbiftest.NewServer()
	t.Cleanup(srv.Close)
	return gbif.NewClient(nil, 0).WithBaseURL(srv.URL + "/"), srv
}

func TestClient_MatchByName(t *testing.T) {
	c, _ := testClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		want int64
	}{
		{"Panthera leo", gbiftest.KeyPantheraLeo},
		{"canis lupus familiaris", gbiftest.KeyCanisLupus},
		{"Panthera", 0},
		{"Nonexistent thing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := c.MatchByName(ctx, tt.name)
			if err != nil {
				t.Fatalf("MatchByName: %v", err)
			}
			if m.Key() != tt.want {
				t.Errorf("Key() = %d, want %d", m.Key(), tt.want)
			}
		})
	}
}

func TestMatchKeyFallsBackToAcceptedUsage(t *testing.T) {
	m := gbif.Match{AcceptedUsageKey: 42}
	if m.Key() != 42 {
		t.Errorf("Key() = %d, want 42", m.Key())
	}
	if (gbif.Match{SpeciesKey: 7, AcceptedUsageKey: 42}).Key() != 7 {
		t.Error("speciesKey should win over acceptedUsageKey")
	}
}

func TestClient_SearchSpecies(t *testing.T) {
	c, srv := testClient(t)
	ctx := context.Background()

	recs, err := c.SearchSpecies(ctx, "lion", gbif.SearchParams{
		QField:     gbif.QFieldVernacular,
		Rank:       taxon.Species,
		Status:     taxon.StatusAccepted,
		KingdomKey: gbif.AnimaliaKey,
		Limit:      100,
	})
	if err != nil {
		t.Fatalf("SearchSpecies: %v", err)
	}
	if len(recs) != 1 || recs[0].Key != gbiftest.KeyPantheraLeo {
		t.Fatalf("results = %+v", recs)
	}
	r := recs[0]
	if r.Status != taxon.StatusAccepted {
		t.Errorf("Status = %q, want taxonomicStatus mapped to ACCEPTED", r.Status)
	}
	if r.Rank != taxon.Species || r.Kingdom != "Animalia" || r.ParentKey == 0 {
		t.Errorf("record = %+v", r)
	}

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	for _, want := range []string{"qField=VERNACULAR", "rank=SPECIES", "status=ACCEPTED", "kingdomKey=1", "limit=100", "q=lion"} {
		if !strings.Contains(last, want) {
			t.Errorf("request %q missing %q", last, want)
		}
	}
}

func TestClient_SearchSpeciesOmitsZeroParams(t *testing.T) {
	c, srv := testClient(t)
	if _, err := c.SearchSpecies(context.Background(), "Panthera leo", gbif.SearchParams{Limit: 50}); err != nil {
		t.Fatal(err)
	}
	last := srv.Requests()[0]
	for _, absent := range []string{"qField", "rank", "status", "kingdomKey"} {
		if strings.Contains(last, absent) {
			t.Errorf("request %q should not carry %s", last, absent)
		}
	}
}

func TestClient_GetTaxon(t *testing.T) {
	c, _ := testClient(t)

	r, err := c.GetTaxon(context.Background(), gbiftest.KeyPantheraLeo)
	if err != nil {
		t.Fatalf("GetTaxon: %v", err)
	}
	if r.CanonicalName != "Panthera leo" || r.VernacularName != "Lion" {
		t.Errorf("record = %+v", r)
	}
	if r.ScientificName != "Panthera leo (Linnaeus, 1758)" {
		t.Errorf("ScientificName = %q", r.ScientificName)
	}

	_, err = c.GetTaxon(context.Background(), 123456789)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("missing taxon error = %v, want ErrNotFound", err)
	}
}

func TestClient_VernacularNames(t *testing.T) {
	c, _ := testClient(t)

	page, err := c.VernacularNames(context.Background(), gbiftest.KeyFelisCatus, 2, 0)
	if err != nil {
		t.Fatalf("VernacularNames: %v", err)
	}
	if len(page.Results) != 2 || page.EndOfRecords {
		t.Errorf("first page = %+v", page)
	}
	page, _ = c.VernacularNames(context.Background(), gbiftest.KeyFelisCatus, 2, 2)
	if len(page.Results) != 1 || !page.EndOfRecords {
		t.Errorf("second page = %+v", page)
	}
	if page.Results[0].Language != "deu" {
		t.Errorf("language = %q", page.Results[0].Language)
	}
}

func TestClient_ServerError(t *testing.T) {
	c, srv := testClient(t)
	srv.Fail("/species/match", http.StatusBadGateway)

	_, err := c.MatchByName(context.Background(), "Panthera leo")
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if srv.CountPrefix("/species/match") != 1 {
		t.Error("default client must not retry")
	}
}

func TestClient_ResponseCache(t *testing.T) {
	srv := gbiftest.NewServer()
	defer srv.Close()
	c := gbif.NewClient(cache.NewMemoryCache(), time.Hour).WithBaseURL(srv.URL)

	for range 3 {
		if _, err := c.GetTaxon(context.Background(), gbiftest.KeyPantheraLeo); err != nil {
			t.Fatal(err)
		}
	}
	if n := srv.CountPrefix("/species/5219404"); n != 1 {
		t.Errorf("server saw %d requests, want 1 with caching on", n)
	}
}

func TestWithBaseURL(t *testing.T) {
	c := gbif.NewClient(nil, 0)
	if c.BaseURL() != gbif.DefaultBaseURL {
		t.Errorf("default BaseURL = %q", c.BaseURL())
	}
	c.WithBaseURL("")
	if c.BaseURL() != gbif.DefaultBaseURL {
		t.Error("empty url should be ignored")
	}
	c.WithBaseURL("http://mirror.example/v1///")
	if c.BaseURL() != "http://mirror.example/v1" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}
