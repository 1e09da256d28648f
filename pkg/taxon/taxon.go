package taxon

import (
	"strconv"
	"strings"
)

// Rank is a taxonomic classification level as reported by the remote service
// (upper-case, e.g. "SPECIES").
type Rank string

// Recognized ranks. The first eight make up a lineage; the finer ranks only
// appear on search candidates.
const (
	Domain     Rank = "DOMAIN"
	Kingdom    Rank = "KINGDOM"
	Phylum     Rank = "PHYLUM"
	Class      Rank = "CLASS"
	Order      Rank = "ORDER"
	Family     Rank = "FAMILY"
	Genus      Rank = "GENUS"
	Species    Rank = "SPECIES"
	Subspecies Rank = "SUBSPECIES"
	Variety    Rank = "VARIETY"
	Form       Rank = "FORM"
)

// StatusAccepted is the taxonomic status of an accepted name usage.
const StatusAccepted = "ACCEPTED"

// MainRanks lists the lineage ranks from the top of the hierarchy down.
var MainRanks = []Rank{Domain, Kingdom, Phylum, Class, Order, Family, Genus, Species}

var mainRankIndex = func() map[Rank]int {
	m := make(map[Rank]int, len(MainRanks))
	for i, r := range MainRanks {
		m[r] = i
	}
	return m
}()

// defaultPriority is used for ranks without an explicit search priority.
const defaultPriority = 20

var rankPriority = map[Rank]int{
	Species:    0,
	Subspecies: 1,
	Variety:    2,
	Form:       3,
	Genus:      4,
	Family:     5,
	Order:      6,
	Class:      7,
	Phylum:     8,
	Kingdom:    9,
}

// ParseRank upper-cases and trims s. Unknown ranks are kept verbatim.
func ParseRank(s string) Rank {
	return Rank(strings.ToUpper(strings.TrimSpace(s)))
}

// IsMain reports whether r is one of the eight lineage ranks.
func (r Rank) IsMain() bool {
	_, ok := mainRankIndex[r]
	return ok
}

// Index returns the position of r in [MainRanks], or -1.
func (r Rank) Index() int {
	if i, ok := mainRankIndex[r]; ok {
		return i
	}
	return -1
}

// Priority orders candidate ranks for scoring: lower is more specific.
// Ranks outside the priority table get 20.
func (r Rank) Priority() int {
	if p, ok := rankPriority[r]; ok {
		return p
	}
	return defaultPriority
}

// Record is a taxon usage returned by the remote service.
// A zero Key marks the record unusable; a zero ParentKey means no parent.
type Record struct {
	Key            int64  `json:"key"`
	CanonicalName  string `json:"canonicalName,omitempty"`
	ScientificName string `json:"scientificName,omitempty"`
	VernacularName string `json:"vernacularName,omitempty"`
	Rank           Rank   `json:"rank,omitempty"`
	Status         string `json:"status,omitempty"`
	Kingdom        string `json:"kingdom,omitempty"`
	ParentKey      int64  `json:"parentKey,omitempty"`
}

// Usable reports whether the record carries a key.
func (r Record) Usable() bool { return r.Key != 0 }

// DisplayName returns the canonical name, falling back to the scientific
// name and finally "Unknown".
func (r Record) DisplayName() string {
	switch {
	case r.CanonicalName != "":
		return r.CanonicalName
	case r.ScientificName != "":
		return r.ScientificName
	default:
		return "Unknown"
	}
}

// Node is one element of a lineage.
type Node struct {
	Name       string `json:"name"`
	Rank       Rank   `json:"rank"`
	Key        string `json:"key"`
	CommonName string `json:"commonName,omitempty"`
}

// FormatKey renders a remote key the way lineage nodes store it.
func FormatKey(key int64) string { return strconv.FormatInt(key, 10) }

// Path is a lineage ordered from DOMAIN down to SPECIES.
type Path []Node

// Leaf returns the deepest node of the path.
func (p Path) Leaf() (Node, bool) {
	if len(p) == 0 {
		return Node{}, false
	}
	return p[len(p)-1], true
}

// Names returns the node names in order.
func (p Path) Names() []string {
	names := make([]string, len(p))
	for i, n := range p {
		names[i] = n.Name
	}
	return names
}
