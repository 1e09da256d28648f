package resolve

import (
	"strings"

	"github.com/evotree/evotree/pkg/taxon"
)

// Variants expands a common name into normalized lexical variants: the
// folded base form, naive English singulars and grey/gray spellings.
// The result is deduplicated, keeps first-seen order and never contains
// an empty string.
func Variants(s string) []string {
	base := taxon.NormalizeName(s)
	if base == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(base)
	if strings.HasSuffix(base, "ies") && len(base) > 5 {
		add(base[:len(base)-3] + "y")
	}
	if strings.HasSuffix(base, "es") && len(base) > 4 {
		add(base[:len(base)-2])
	}
	// Four letters is enough for a plain "s": "cats" → "cat". The "ss" guard
	// keeps "bass" and "moss" whole.
	if strings.HasSuffix(base, "s") && len(base) >= 4 && !strings.HasSuffix(base, "ss") {
		add(base[:len(base)-1])
	}
	if strings.Contains(base, "grey") {
		add(strings.ReplaceAll(base, "grey", "gray"))
	}
	if strings.Contains(base, "gray") {
		add(strings.ReplaceAll(base, "gray", "grey"))
	}
	return out
}
