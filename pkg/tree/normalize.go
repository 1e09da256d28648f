package tree

import (
	"strings"

	"github.com/evotree/evotree/pkg/taxon"
)

// NormalizeLegacy moves kingdoms sitting directly under the root beneath
// their domain, creating the domain node when needed. Names are compared
// case-insensitively; a kingdom that already exists under the domain is
// merged with the moved one. Root children that are not known kingdoms stay
// where they are.
//
// The input is not modified. Normalizing twice gives the same tree as
// normalizing once.
func NormalizeLegacy(root *Node) *Node {
	if root == nil {
		return New()
	}
	out := root.Clone()

	type move struct {
		node   *Node
		domain string
	}
	var keep []*Node
	var moves []move
	for _, c := range out.Children {
		domain, ok := taxon.DomainForKingdom(c.Name)
		if ok && foldName(domain) != foldName(c.Name) {
			moves = append(moves, move{c, domain})
			continue
		}
		keep = append(keep, c)
	}
	if len(moves) == 0 {
		return out
	}

	out.Children = keep
	for _, m := range moves {
		dn := childFold(out, m.domain)
		if dn == nil {
			dn = &Node{Name: m.domain, Children: []*Node{}}
			out.Children = append(out.Children, dn)
		}
		if existing := childFold(dn, m.node.Name); existing != nil {
			mergeFold(existing, m.node)
			continue
		}
		dn.Children = append(dn.Children, m.node)
	}
	return out
}

// mergeFold merges src into dst, matching children case-insensitively.
// dst keeps its common name if it has one.
func mergeFold(dst, src *Node) {
	if dst.CommonName == "" {
		dst.CommonName = src.CommonName
	}
	for _, sc := range src.Children {
		if existing := childFold(dst, sc.Name); existing != nil {
			mergeFold(existing, sc)
			continue
		}
		dst.Children = append(dst.Children, sc)
	}
}

func childFold(n *Node, name string) *Node {
	key := foldName(name)
	for _, c := range n.Children {
		if foldName(c.Name) == key {
			return c
		}
	}
	return nil
}

func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
