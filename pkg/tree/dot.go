package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// CommonNames appends each node's common name to its label.
	CommonNames bool
	// LeftToRight lays the tree out horizontally.
	LeftToRight bool
}

// ToDOT converts a tree to Graphviz DOT. Node IDs are the slash-joined
// names from the root, so equal names under different parents stay apart.
func ToDOT(root *Node, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Tree {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges []string
	var visit func(n *Node, id string)
	visit = func(n *Node, id string) {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(dotAttrs(n, opts), ", "))
		for _, c := range n.Children {
			cid := id + "/" + c.Name
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", id, cid))
			visit(c, cid)
		}
	}
	visit(root, root.Name)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n *Node, opts DOTOptions) []string {
	label := n.Name
	if opts.CommonNames && n.CommonName != "" {
		label += "\n(" + n.CommonName + ")"
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if len(n.Children) == 0 {
		attrs = append(attrs, "fillcolor=\"#e8f5e9\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
