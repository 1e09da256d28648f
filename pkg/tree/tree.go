package tree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evotree/evotree/pkg/taxon"
)

// RootName is the name of every tree's root.
const RootName = "Life"

// Node is one taxon in the tree. Sibling names are unique.
type Node struct {
	Name       string  `json:"name"`
	CommonName string  `json:"commonName,omitempty"`
	Children   []*Node `json:"children"`
}

// New returns an empty tree.
func New() *Node {
	return &Node{Name: RootName, Children: []*Node{}}
}

// Child returns the direct child named exactly name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Merge inserts path below root, one level per node, reusing children whose
// name matches exactly. A reused node without a common name takes the
// path's. Merge mutates root and returns it.
func Merge(root *Node, path taxon.Path) *Node {
	cur := root
	for _, p := range path {
		next := cur.Child(p.Name)
		if next == nil {
			next = &Node{Name: p.Name, CommonName: p.CommonName, Children: []*Node{}}
			cur.Children = append(cur.Children, next)
		} else if next.CommonName == "" && p.CommonName != "" {
			next.CommonName = p.CommonName
		}
		cur = next
	}
	return root
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, CommonName: n.CommonName, Children: make([]*Node, len(n.Children))}
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

// Find follows names from n and returns the node reached, or nil.
func (n *Node) Find(names ...string) *Node {
	cur := n
	for _, name := range names {
		if cur = cur.Child(name); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk calls fn for n and every descendant in depth-first pre-order.
// Returning false skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Stats summarizes a tree.
type Stats struct {
	Nodes  int `json:"nodes"`  // nodes below the root
	Leaves int `json:"leaves"` // usually species
	Depth  int `json:"depth"`  // edges on the longest root-to-leaf path
}

// Stats computes tree statistics.
func (n *Node) Stats() Stats {
	var s Stats
	n.Walk(func(node *Node, depth int) bool {
		if depth == 0 {
			return true
		}
		s.Nodes++
		if len(node.Children) == 0 {
			s.Leaves++
		}
		s.Depth = max(s.Depth, depth)
		return true
	})
	return s
}

// Equal reports whether two trees have the same names, common names and
// child order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.CommonName != b.CommonName || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Decode parses a persisted tree. The payload must be an object with a
// non-empty name; missing children lists are normalized to empty ones.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if strings.TrimSpace(n.Name) == "" {
		return nil, fmt.Errorf("decode tree: missing root name")
	}
	n.Walk(func(node *Node, _ int) bool {
		if node.Children == nil {
			node.Children = []*Node{}
		}
		return true
	})
	return &n, nil
}

// Encode returns the JSON form of n.
func (n *Node) Encode() ([]byte, error) {
	return json.Marshal(n)
}
