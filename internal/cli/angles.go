package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	gio "github.com/matzehuels/gravity/pkg/io"
)

// anglesCommand prints the angle stage on its own: weights and angles
// before any collision resolution.
func (c *CLI) anglesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "angles [tasks.yaml]",
		Short: "Print the angle assigned to each task before collision resolution",
		Long: `Print the angle assigned to each task before collision resolution.

Tasks are spread evenly across their quadrant, heaviest first, so this shows
where each task starts before overlapping tasks are pushed apart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			tasks, err := gio.ImportTasks(args[0])
			if err != nil {
				return err
			}
			engine := cfg.Engine.Sanitize()

			weighted := make([]gravity.WeightedTask, len(tasks))
			for i, t := range tasks {
				weighted[i] = gravity.WeightedTask{
					ID:       t.ID,
					Weight:   t.Weight(engine),
					Quadrant: t.Quadrant.Normalize(engine.DefaultQuadrant),
				}
			}
			angles := gravity.AssignAnglesSorted(weighted, engine)

			rows := make([][]string, len(weighted))
			for i, w := range weighted {
				rows[i] = []string{
					w.ID,
					w.Quadrant.String(),
					fmt.Sprintf("%.2f", w.Weight),
					fmt.Sprintf("%.1f", gravity.ComputeRadius(w.Weight, engine)),
					fmt.Sprintf("%.1f°", angles[w.ID]),
				}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Task", "Quad", "Weight", "r", "θ").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return styleHeader
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
