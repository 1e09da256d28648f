package resolve

import (
	"regexp"
	"strings"
)

var scientificRE = regexp.MustCompile(`^[A-Z][a-z-]+(\s+[a-z-]+){1,2}$`)

// IsScientificName reports whether s looks like a binomial or trinomial:
// a capitalized genus followed by one or two lower-case epithets.
//
//	IsScientificName("Panthera leo")   // true
//	IsScientificName("lion")           // false
//	IsScientificName("Panthera")       // false
func IsScientificName(s string) bool {
	return scientificRE.MatchString(strings.TrimSpace(s))
}
