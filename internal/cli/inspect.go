package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	gio "github.com/matzehuels/gravity/pkg/io"
	"github.com/matzehuels/gravity/pkg/matrix"
)

// inspectCommand opens an interactive browser over a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [layout.json | tasks.yaml]",
		Short: "Browse a layout interactively",
		Long: `Browse a layout interactively.

Accepts either a layout.json file or a task file, which is laid out first.
Use the arrow keys to move, s to change the sort order and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := c.loadOrComputeLayout(cmd.Context(), args[0], noCache)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newInspectModel(args[0], layout), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// loadOrComputeLayout reads path as a layout, or as a task file to lay out.
func (c *CLI) loadOrComputeLayout(ctx context.Context, path string, noCache bool) (matrix.Layout, error) {
	if layout, err := matrix.ReadLayoutFile(path); err == nil {
		return layout, nil
	}
	tasks, err := gio.ImportTasks(path)
	if err != nil {
		return matrix.Layout{}, err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return matrix.Layout{}, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return matrix.Layout{}, err
	}
	defer runner.Close()
	opts := optionsFor(cfg)
	return runner.Layout(ctx, tasks, opts)
}

// =============================================================================
// inspectModel - Interactive node browser
// =============================================================================

type sortOrder int

const (
	sortInput sortOrder = iota
	sortWeight
	sortAngle
	sortCount
)

func (s sortOrder) String() string {
	switch s {
	case sortWeight:
		return "weight"
	case sortAngle:
		return "angle"
	}
	return "input"
}

var styleDetailBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 1)

type inspectModel struct {
	title  string
	layout matrix.Layout
	nodes  []matrix.Node
	order  sortOrder
	cursor int
	offset int
	height int
}

func newInspectModel(title string, layout matrix.Layout) inspectModel {
	m := inspectModel{title: title, layout: layout, height: 12}
	m.resort()
	return m
}

// resort orders m.nodes by the current sort order. Ties keep input order.
func (m *inspectModel) resort() {
	m.nodes = append([]matrix.Node(nil), m.layout.Nodes...)
	switch m.order {
	case sortWeight:
		sort.SliceStable(m.nodes, func(i, j int) bool { return m.nodes[i].Weight > m.nodes[j].Weight })
	case sortAngle:
		sort.SliceStable(m.nodes, func(i, j int) bool { return m.nodes[i].Theta < m.nodes[j].Theta })
	}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.nodes)-1, 0)
		case "s":
			m.order = (m.order + 1) % sortCount
			m.resort()
			m.cursor, m.offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-14, 3)
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("↑/↓ navigate  s sort (%s)  q quit", m.order)))
	b.WriteString("\n\n")

	if len(m.nodes) == 0 {
		b.WriteString(StyleDim.Render("no tasks"))
		return b.String()
	}

	end := min(m.offset+m.height, len(m.nodes))
	b.WriteString(nodeTable(m.nodes[m.offset:end], m.cursor-m.offset))
	b.WriteString("\n")
	b.WriteString(styleDetailBox.Render(m.detail(m.nodes[m.cursor])))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]  overflow %d  total weight %.2f",
		m.cursor+1, len(m.nodes), len(m.layout.Overflow), m.layout.Summary.TotalWeight)))

	return b.String()
}

func (m inspectModel) detail(n matrix.Node) string {
	lines := []string{
		StyleTitle.Render(n.DisplayLabel()),
		fmt.Sprintf("id        %s", n.ID),
		fmt.Sprintf("quadrant  %s", n.Quadrant),
		fmt.Sprintf("weight    %.3f", n.Weight),
		fmt.Sprintf("polar     r=%.1f θ=%.1f°", n.R, n.Theta),
		fmt.Sprintf("position  x=%.1f y=%.1f", n.X, n.Y),
		fmt.Sprintf("box       %.0f×%.0f × %.2f", n.Width, n.Height, n.BoxScale),
	}
	placement := n.Placement
	if n.IsOverflow() {
		placement = styleOverflow.Render(placement)
	}
	lines = append(lines, "placement "+placement)
	return strings.Join(lines, "\n")
}
