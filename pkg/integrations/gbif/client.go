package gbif

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evotree/evotree/pkg/buildinfo"
	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/integrations"
	"github.com/evotree/evotree/pkg/taxon"
)

// DefaultBaseURL is the public GBIF API root.
const DefaultBaseURL = "https://api.gbif.org/v1"

// AnimaliaKey is the backbone key of kingdom Animalia, used as kingdomKey.
const AnimaliaKey = 1

// QFieldVernacular restricts a search to vernacular names.
const QFieldVernacular = "VERNACULAR"

// SearchParams narrows a species search. Zero fields are omitted from the
// request.
type SearchParams struct {
	QField     string
	Rank       taxon.Rank
	Status     string
	KingdomKey int
	Limit      int
}

// Match is the answer of the name-match endpoint.
type Match struct {
	SpeciesKey       int64  `json:"speciesKey,omitempty"`
	AcceptedUsageKey int64  `json:"acceptedUsageKey,omitempty"`
	MatchType        string `json:"matchType,omitempty"`
	Confidence       int    `json:"confidence,omitempty"`
}

// Key returns the species key, else the accepted-usage key, else 0.
func (m Match) Key() int64 {
	if m.SpeciesKey != 0 {
		return m.SpeciesKey
	}
	return m.AcceptedUsageKey
}

// VernacularName is one common name of a taxon.
type VernacularName struct {
	VernacularName string `json:"vernacularName"`
	Language       string `json:"language,omitempty"`
}

// VernacularPage is one page of the vernacular-names endpoint.
type VernacularPage struct {
	Offset       int              `json:"offset"`
	Limit        int              `json:"limit"`
	EndOfRecords bool             `json:"endOfRecords"`
	Results      []VernacularName `json:"results"`
}

// Client provides access to the GBIF species API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GBIF client.
//
// Parameters:
//   - backend: cache for raw responses (nil or [cache.NullCache] disables it)
//   - cacheTTL: how long responses are cached; zero disables caching
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": buildinfo.UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(backend, "gbif:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root (a mirror or a test
// server). Trailing slashes are removed; an empty url is ignored.
func (c *Client) WithBaseURL(u string) *Client {
	if u = strings.TrimRight(u, "/"); u != "" {
		c.baseURL = u
	}
	return c
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string { return c.baseURL }

// MatchByName runs the backbone name matcher. A miss is not an error: the
// returned Match has a zero Key.
func (c *Client) MatchByName(ctx context.Context, name string) (Match, error) {
	path := "/species/match?name=" + integrations.URLEncode(name)

	var m Match
	err := c.Cached(ctx, path, false, &m, func() error {
		return c.Get(ctx, c.baseURL+path, &m)
	})
	if err != nil {
		return Match{}, fmt.Errorf("gbif match %q: %w", name, err)
	}
	return m, nil
}

// SearchSpecies runs a full-text species search and returns the raw result
// records, unusable ones included.
func (c *Client) SearchSpecies(ctx context.Context, q string, p SearchParams) ([]taxon.Record, error) {
	path := "/species/search?" + searchQuery(q, p)

	var resp searchResponse
	err := c.Cached(ctx, path, false, &resp, func() error {
		return c.Get(ctx, c.baseURL+path, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("gbif search %q: %w", q, err)
	}

	records := make([]taxon.Record, 0, len(resp.Results))
	for _, r := range resp.Results {
		records = append(records, r.record())
	}
	return records, nil
}

// GetTaxon fetches one name usage by key.
func (c *Client) GetTaxon(ctx context.Context, key int64) (taxon.Record, error) {
	path := "/species/" + strconv.FormatInt(key, 10)

	var r apiRecord
	err := c.Cached(ctx, path, false, &r, func() error {
		return c.Get(ctx, c.baseURL+path, &r)
	})
	if err != nil {
		return taxon.Record{}, fmt.Errorf("gbif taxon %d: %w", key, err)
	}
	return r.record(), nil
}

// VernacularNames fetches one page of common names for key.
func (c *Client) VernacularNames(ctx context.Context, key int64, limit, offset int) (VernacularPage, error) {
	path := fmt.Sprintf("/species/%d/vernacularNames?limit=%d&offset=%d", key, limit, offset)

	var page VernacularPage
	err := c.Cached(ctx, path, false, &page, func() error {
		return c.Get(ctx, c.baseURL+path, &page)
	})
	if err != nil {
		return VernacularPage{}, fmt.Errorf("gbif vernacular names %d: %w", key, err)
	}
	return page, nil
}

// searchQuery encodes parameters in a fixed order so equal searches share a
// cache key.
func searchQuery(q string, p SearchParams) string {
	v := url.Values{}
	v.Set("q", q)
	if p.QField != "" {
		v.Set("qField", p.QField)
	}
	if p.Rank != "" {
		v.Set("rank", string(p.Rank))
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.KingdomKey != 0 {
		v.Set("kingdomKey", strconv.Itoa(p.KingdomKey))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v.Encode()
}

type searchResponse struct {
	Offset       int         `json:"offset"`
	Limit        int         `json:"limit"`
	EndOfRecords bool        `json:"endOfRecords"`
	Results      []apiRecord `json:"results"`
}

type apiRecord struct {
	Key             int64  `json:"key"`
	CanonicalName   string `json:"canonicalName,omitempty"`
	ScientificName  string `json:"scientificName,omitempty"`
	VernacularName  string `json:"vernacularName,omitempty"`
	Rank            string `json:"rank,omitempty"`
	TaxonomicStatus string `json:"taxonomicStatus,omitempty"`
	Status          string `json:"status,omitempty"`
	Kingdom         string `json:"kingdom,omitempty"`
	ParentKey       int64  `json:"parentKey,omitempty"`
}

func (r apiRecord) record() taxon.Record {
	status := r.TaxonomicStatus
	if status == "" {
		status = r.Status
	}
	return taxon.Record{
		Key:            r.Key,
		CanonicalName:  r.CanonicalName,
		ScientificName: r.ScientificName,
		VernacularName: r.VernacularName,
		Rank:           taxon.ParseRank(r.Rank),
		Status:         strings.ToUpper(status),
		Kingdom:        r.Kingdom,
		ParentKey:      r.ParentKey,
	}
}
