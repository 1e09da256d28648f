package resolve

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/evotree/evotree/pkg/taxon"
)

// MinCommonScore is the lowest score a common-name winner may have.
const MinCommonScore = 90

// ScoreOptions tunes [ScoreSearchCandidate].
type ScoreOptions struct {
	// PreferCommonAnimal boosts vernacular hits and animals and punishes
	// short queries that only hit Latin text.
	PreferCommonAnimal bool
}

func baseScore(rec taxon.Record) int {
	score := 30 - rec.Rank.Priority()
	if rec.Status == taxon.StatusAccepted {
		score += 25
	}
	if rec.ParentKey != 0 {
		score += 10
	}
	return score
}

func kingdomScore(rec taxon.Record) int {
	if strings.EqualFold(rec.Kingdom, "animalia") {
		return 70
	}
	return -60
}

// hasTokenMatch reports whether q appears in phrase as a whole word.
func hasTokenMatch(phrase, q string) bool {
	if phrase == "" || q == "" {
		return false
	}
	return phrase == q ||
		strings.HasPrefix(phrase, q+" ") ||
		strings.HasSuffix(phrase, " "+q) ||
		strings.Contains(phrase, " "+q+" ")
}

// ScoreSearchCandidate scores rec against a raw query. Comparisons are
// case-insensitive but otherwise literal.
func ScoreSearchCandidate(rec taxon.Record, query string, opts ScoreOptions) int {
	q := strings.ToLower(query)
	canonical := strings.ToLower(rec.CanonicalName)
	scientific := strings.ToLower(rec.ScientificName)
	vernacular := strings.ToLower(rec.VernacularName)

	total := baseScore(rec)
	switch {
	case canonical == q || vernacular == q:
		total += 35
	case strings.Contains(canonical, q) || strings.Contains(scientific, q) || strings.Contains(vernacular, q):
		total += 15
	}

	if !opts.PreferCommonAnimal {
		return total
	}

	switch {
	case vernacular == q:
		total += 140
	case strings.Contains(vernacular, q):
		total += 80
	}
	total += kingdomScore(rec)

	if utf8.RuneCountInString(q) <= 4 {
		if !hasTokenMatch(vernacular, q) {
			total -= 220
		}
		if vernacular != q && strings.Contains(canonical, q) {
			total -= 80
		}
	}
	return total
}

// ScoreCommonCandidate scores rec against a set of normalized variants,
// matching them against the normalized vernacular name.
func ScoreCommonCandidate(rec taxon.Record, variants []string) int {
	vs := make([]string, 0, len(variants))
	for _, v := range variants {
		vs = append(vs, taxon.NormalizeName(v))
	}
	vernacular := taxon.NormalizeName(rec.VernacularName)
	canonical := taxon.NormalizeName(rec.CanonicalName)
	scientific := taxon.NormalizeName(rec.ScientificName)

	text := 0
	switch {
	case slices.Contains(vs, vernacular):
		text = 180
	case slices.ContainsFunc(vs, func(q string) bool {
		return strings.HasPrefix(vernacular, q+" ") || strings.HasSuffix(vernacular, " "+q)
	}):
		text = 95
	case slices.ContainsFunc(vs, func(q string) bool {
		return strings.Contains(vernacular, " "+q+" ")
	}):
		text = 70
	case slices.ContainsFunc(vs, func(q string) bool {
		return canonical == q || strings.HasPrefix(scientific, q)
	}):
		text = 15
	}

	total := text + baseScore(rec) + kingdomScore(rec)

	short := slices.ContainsFunc(vs, func(q string) bool { return len(q) <= 4 })
	if short && !slices.ContainsFunc(vs, func(q string) bool { return hasTokenMatch(vernacular, q) }) {
		total -= 220
	}
	return total
}

// ScoreAliasList scores a candidate's normalized alias list against the
// query variants: 250 for an exact alias, 120 for a whole-word hit, 75 when
// a variant longer than four characters occurs inside an alias, else 0.
func ScoreAliasList(aliases, variants []string) int {
	if len(aliases) == 0 || len(variants) == 0 {
		return 0
	}
	if slices.ContainsFunc(variants, func(v string) bool { return slices.Contains(aliases, v) }) {
		return 250
	}
	if slices.ContainsFunc(variants, func(v string) bool {
		return slices.ContainsFunc(aliases, func(a string) bool { return hasTokenMatch(a, v) })
	}) {
		return 120
	}
	if slices.ContainsFunc(variants, func(v string) bool {
		return len(v) > 4 && slices.ContainsFunc(aliases, func(a string) bool { return strings.Contains(a, v) })
	}) {
		return 75
	}
	return 0
}

type scored struct {
	rec   taxon.Record
	score int
}

// rank scores usable records and sorts them by descending score, keeping
// the service's order among ties.
func rank(records []taxon.Record, score func(taxon.Record) int) []scored {
	out := make([]scored, 0, len(records))
	for _, r := range records {
		if r.Usable() {
			out = append(out, scored{rec: r, score: score(r)})
		}
	}
	slices.SortStableFunc(out, func(a, b scored) int { return cmp.Compare(b.score, a.score) })
	return out
}

// PickBestSearchKey returns the key of the best-scoring usable record. In
// prefer-common-animal mode the winner must reach [MinCommonScore].
func PickBestSearchKey(records []taxon.Record, query string, opts ScoreOptions) (int64, bool) {
	ranked := rank(records, func(r taxon.Record) int { return ScoreSearchCandidate(r, query, opts) })
	if len(ranked) == 0 {
		return 0, false
	}
	if opts.PreferCommonAnimal && ranked[0].score < MinCommonScore {
		return 0, false
	}
	return ranked[0].rec.Key, true
}

// PickExactScientificKey prefers a record whose canonical name equals name,
// then one whose scientific name starts with it, then the first usable one.
func PickExactScientificKey(records []taxon.Record, name string) (int64, bool) {
	target := strings.ToLower(name)
	var usable []taxon.Record
	for _, r := range records {
		if r.Usable() {
			usable = append(usable, r)
		}
	}
	if len(usable) == 0 {
		return 0, false
	}
	for _, r := range usable {
		if strings.ToLower(r.CanonicalName) == target {
			return r.Key, true
		}
	}
	for _, r := range usable {
		if strings.HasPrefix(strings.ToLower(r.ScientificName), target) {
			return r.Key, true
		}
	}
	return usable[0].Key, true
}
