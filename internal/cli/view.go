package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewCommand opens the interactive column browser.
func (c *CLI) viewCommand() *cobra.Command {
	var flags trackFlags

	cmd := &cobra.Command{
		Use:   "view [features.gff3|track.json]",
		Short: "Browse the columns of a bumped track",
		Long: `Browse the columns of a bumped track in the terminal.

Each line is one column, drawn over the full extent of the visible features.
Press m to re-bump the track in the next mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			t, _, err := runner.ImportWithCacheInfo(ctx, opts)
			if err != nil {
				return err
			}

			model := NewColumnViewModel(t, runner.Engine, opts.Mode, opts.Window)
			if model.Err != nil {
				return model.Err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
