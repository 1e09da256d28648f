package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/evotree/evotree/pkg/taxon"
	"github.com/evotree/evotree/pkg/tree"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success, species
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorBlue  = lipgloss.Color("75")  // Light blue - commands
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSpecies for tree leaves.
	StyleSpecies = lipgloss.NewStyle().Foreground(colorGreen).Italic(true)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleRank    = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Taxonomy Output
// =============================================================================

// printStats prints tree statistics on a single line.
func printStats(w io.Writer, s tree.Stats) {
	parts := []string{
		fmt.Sprintf("%d species", s.Leaves),
		fmt.Sprintf("%d nodes", s.Nodes),
		fmt.Sprintf("depth %d", s.Depth),
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// renderPath renders a lineage one rank per line, root first.
func renderPath(p taxon.Path) string {
	var b strings.Builder
	for i, n := range p {
		name := StyleValue.Render(n.Name)
		if i == len(p)-1 {
			name = StyleSpecies.Render(n.Name)
		}
		line := styleRank.Render(strings.ToLower(string(n.Rank))) + " " + name
		if n.CommonName != "" {
			line += " " + StyleDim.Render("("+n.CommonName+")")
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// renderTree draws root with rounded tree connectors. Leaves are styled as
// species; common names follow in parentheses.
func renderTree(root *tree.Node) string {
	if len(root.Children) == 0 {
		return StyleTitle.Render(root.Name) + "\n" + StyleDim.Render("  (empty)")
	}
	t := ltree.Root(StyleTitle.Render(root.Name)).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, c := range root.Children {
		t.Child(treeBranch(c))
	}
	return t.String()
}

func treeBranch(n *tree.Node) any {
	label := StyleValue.Render(n.Name)
	if len(n.Children) == 0 {
		label = StyleSpecies.Render(n.Name)
	}
	if n.CommonName != "" {
		label += " " + StyleDim.Render("("+n.CommonName+")")
	}
	if len(n.Children) == 0 {
		return label
	}
	t := ltree.Root(label).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, c := range n.Children {
		t.Child(treeBranch(c))
	}
	return t
}
