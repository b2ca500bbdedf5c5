package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/matrix"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// quadrantColors follow the fills of the rendered matrix.
var quadrantColors = map[gravity.Quadrant]lipgloss.Color{
	gravity.Q1: lipgloss.Color("174"),
	gravity.Q2: lipgloss.Color("111"),
	gravity.Q3: lipgloss.Color("114"),
	gravity.Q4: lipgloss.Color("250"),
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleOverflow = lipgloss.NewStyle().Foreground(colorRed)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// out is where status lines go. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	fmt.Fprintln(out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	fmt.Fprintln(out, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	fmt.Fprintln(out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	fmt.Fprintln(out, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(out)
}

// =============================================================================
// Layout Display
// =============================================================================

// printStats prints layout statistics on a single line.
func printStats(nodeCount, overflow int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d tasks", nodeCount))}
	if overflow > 0 {
		parts = append(parts, styleOverflow.Render(fmt.Sprintf("%d overflow", overflow)))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	fmt.Fprintln(out, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printSummary prints the per-quadrant counts and weights of a layout.
func printSummary(s gravity.Summary) {
	for _, q := range s.Quadrants {
		if q.Count == 0 {
			continue
		}
		label := lipgloss.NewStyle().Foreground(quadrantColors[q.Quadrant]).Render(q.Quadrant.String())
		fmt.Fprintf(out, "  %s  %s tasks  %s\n", label,
			StyleNumber.Render(fmt.Sprint(q.Count)),
			StyleDim.Render(fmt.Sprintf("weight %.2f", q.TotalWeight)))
	}
	printDetail("total weight %.2f", s.TotalWeight)
}

// nodeRows formats layout nodes as table rows.
func nodeRows(nodes []matrix.Node) [][]string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{
			n.DisplayLabel(),
			n.Quadrant.String(),
			fmt.Sprintf("%.2f", n.Weight),
			fmt.Sprintf("%.1f", n.R),
			fmt.Sprintf("%.1f°", n.Theta),
			n.Placement,
		}
	}
	return rows
}

var nodeHeaders = []string{"Task", "Quad", "Weight", "r", "θ", "Placement"}

// nodeTable renders nodes as a bordered table. Highlight marks one row
// (-1 for none).
func nodeTable(nodes []matrix.Node, highlight int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(nodeHeaders...).
		Rows(nodeRows(nodes)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(nodes) {
				return base
			}
			n := nodes[row]
			switch {
			case row == highlight:
				base = base.Bold(true).Foreground(colorCyan)
			case n.IsOverflow():
				base = base.Foreground(colorRed)
			case col == 1:
				base = base.Foreground(quadrantColors[n.Quadrant])
			}
			return base
		}).
		Render()
}
