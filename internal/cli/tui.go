package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	everr "github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/pipeline"
	"github.com/evotree/evotree/pkg/tree"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	cursorStyle = lipgloss.NewStyle().Foreground(colorCyan)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// interactiveCommand creates the "interactive" command.
func (c *CLI) interactiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Add species one after another in a terminal session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			// Info lines would tear through the full-screen view.
			if !c.verbose {
				c.SetLogLevel(log.WarnLevel)
				defer c.SetLogLevel(LogInfo)
			}

			p := tea.NewProgram(newSessionModel(ctx, a.ws),
				tea.WithContext(ctx),
				tea.WithInput(c.in),
				tea.WithOutput(c.out),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(sessionModel); ok && len(m.added) > 0 {
				printSuccess(c.out, "Added %d species: %s", len(m.added), strings.Join(m.added, ", "))
			}
			return nil
		},
	}
}

// =============================================================================
// sessionModel - type a name, inspect the lineage, confirm
// =============================================================================

type sessionState int

const (
	stateInput sessionState = iota
	stateLoading
	statePreview
)

// previewMsg carries the result of a background lookup.
type previewMsg struct {
	preview *pipeline.Preview
	err     error
}

// sessionModel is the bubbletea model behind "evotree interactive".
type sessionModel struct {
	ctx context.Context
	ws  *pipeline.Workspace

	state    sessionState
	input    []rune
	pending  string
	preview  *pipeline.Preview
	main     *tree.Node
	showTree bool

	status string
	err    string
	added  []string
}

func newSessionModel(ctx context.Context, ws *pipeline.Workspace) sessionModel {
	return sessionModel{
		ctx:      ctx,
		ws:       ws,
		main:     ws.Tree(),
		showTree: true,
	}
}

func (m sessionModel) Init() tea.Cmd {
	return nil
}

func (m sessionModel) lookup(name string) tea.Cmd {
	ctx, ws := m.ctx, m.ws
	return func() tea.Msg {
		p, err := ws.Preview(ctx, name)
		return previewMsg{preview: p, err: err}
	}
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case previewMsg:
		if msg.err != nil {
			m.state = stateInput
			m.err = everr.UserMessage(msg.err)
			return m, nil
		}
		m.state = statePreview
		m.preview = msg.preview
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case stateInput:
			return m.updateInput(msg)
		case statePreview:
			return m.updatePreview(msg)
		}
	}
	return m, nil
}

func (m sessionModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		name := strings.TrimSpace(string(m.input))
		if name == "" {
			return m, nil
		}
		m.state = stateLoading
		m.pending = name
		m.status, m.err = "", ""
		return m, m.lookup(name)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyTab:
		m.showTree = !m.showTree
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m sessionModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.preview
	switch msg.String() {
	case "y", "enter":
		root, err := m.ws.Confirm(p.ID)
		if err != nil {
			m.err = everr.UserMessage(err)
		} else {
			m.main = root
			m.added = append(m.added, p.Species)
			m.status = "Added " + p.Species
		}
	case "n", "esc":
		m.ws.Discard(p.ID)
		m.status = "Skipped " + p.Species
	default:
		return m, nil
	}
	m.state = stateInput
	m.preview = nil
	m.input = m.input[:0]
	return m, nil
}

func (m sessionModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("evotree"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("⏎ look up  tab toggle tree  esc quit"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		b.WriteString(promptStyle.Render("Species ›") + " " + string(m.input) + cursorStyle.Render("█"))
		b.WriteString("\n")
	case stateLoading:
		b.WriteString(StyleDim.Render(fmt.Sprintf("Resolving %q...", m.pending)))
		b.WriteString("\n")
	case statePreview:
		b.WriteString(m.previewView())
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(iconError+" "+m.err) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + StyleSuccess.Render(iconSuccess+" "+m.status) + "\n")
	}

	if m.showTree {
		s := m.main.Stats()
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(renderTree(m.main)))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d species · %d nodes · depth %d", s.Leaves, s.Nodes, s.Depth)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m sessionModel) previewView() string {
	p := m.preview
	var b strings.Builder

	title := StyleSpecies.Render(p.Species)
	if p.CommonName != "" {
		title += " " + StyleDim.Render("("+p.CommonName+")")
	}
	b.WriteString(title + "\n")
	if p.Matched {
		b.WriteString(StyleDim.Render("Matched species: "+p.Species) + "\n")
	}
	b.WriteString(renderPath(p.Path))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("Add to tree?") + " " + StyleDim.Render("y/n"))
	b.WriteString("\n")
	return b.String()
}
