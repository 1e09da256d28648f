// Package tree holds the persisted taxonomy tree and the operations that
// grow and repair it.
//
// A tree starts as a single root named "Life" ([New]). Lineage paths are
// inserted with [Merge], which matches siblings by exact name so inserting
// the same path twice changes nothing:
//
//	root := tree.New()
//	tree.Merge(root, path) // Life > Eukaryota > Animalia > ... > Panthera leo
//
// Trees saved before domain grouping existed hold kingdoms directly under
// the root. [NormalizeLegacy] moves them under their domain, merging
// subtrees whose names differ only in case.
//
// The JSON form is {"name", "commonName", "children"}; see [Decode] and
// [Node.Encode]. [ToDOT] and [RenderSVG] export a tree for Graphviz.
package tree
