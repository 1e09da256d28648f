package taxon

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var domainByKingdom = map[string]string{
	"animalia":  "Eukaryota",
	"fungi":     "Eukaryota",
	"plantae":   "Eukaryota",
	"chromista": "Eukaryota",
	"protista":  "Eukaryota",
	"protozoa":  "Eukaryota",
	"bacteria":  "Bacteria",
	"archaea":   "Archaea",
}

// DomainForKingdom maps a kingdom name (any case) to its domain.
func DomainForKingdom(kingdom string) (string, bool) {
	d, ok := domainByKingdom[NormalizeName(kingdom)]
	return d, ok
}

// NormalizeName folds s for comparison: diacritics are stripped, letters are
// lower-cased and every run of characters outside [a-z0-9] becomes a single
// space. The result is trimmed.
func NormalizeName(s string) string {
	folded, _, err := transform.String(foldMarks(), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// foldMarks decomposes and drops combining marks ("ú" -> "u").
// transform.Chain keeps state, so a fresh chain is built per call.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
