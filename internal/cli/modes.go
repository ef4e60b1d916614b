package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/bump"
)

var modeDescriptions = map[bump.Mode]string{
	bump.ModeUnbump:      "single column, original offsets",
	bump.ModeAll:         "one column per feature",
	bump.ModeOverlap:     "fewest columns, first fit",
	bump.ModeAlternating: "two columns, alternating",
}

// modesCommand lists the accepted mode names.
func (c *CLI) modesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the accepted bump modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), modesTable(bump.Modes(), c.Config.Bump.Mode))
			return nil
		},
	}
}

// modesTable renders modes, marking the configured default.
func modesTable(modes []bump.ModeInfo, def bump.Mode) string {
	rows := make([][]string, 0, len(modes))
	for _, m := range modes {
		name := m.Name
		if !m.Named && m.Policy == def {
			name += " *"
		}
		kind := "canonical"
		if m.Named {
			kind = "alias"
		}
		rows = append(rows, []string{name, m.Policy.String(), kind, modeDescriptions[m.Policy]})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mode", "Policy", "Kind", "Layout").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case modes[row].Named:
				return base.Foreground(colorGray)
			case col == 0:
				return base.Foreground(colorCyan)
			}
			return base
		})
	return t.Render() + "\n" + StyleDim.Render("* configured default")
}
