package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/conflict"
)

// graphCommand writes the overlap graph of a bumped track (debug tool).
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags  trackFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "graph [features.gff3|track.json]",
		Short: "Render the overlap graph of a bumped track (debug tool)",
		Long: `Render the overlap graph of a bumped track.

Each visible feature is a node coloured by its column; overlapping features
are joined by an edge. Edges between features sharing a column are drawn
red and reported, which never happens for a correct layout.`,
		Example: `  trackbump graph genes.gff3 -o genes.svg
  trackbump graph genes.gff3 --window 1000:2000 --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			if format == "" {
				format = graphFormat(output)
			}
			if format != "dot" && format != "svg" {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			t := result.Track

			dot, err := conflict.ToDOT(t.Name, t.Features)
			if err != nil {
				return err
			}
			data := []byte(dot)
			if format == "svg" {
				if data, err = conflict.RenderSVG(ctx, dot); err != nil {
					return err
				}
			}
			if err := writeOutput(data, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if output == "" {
				return nil
			}
			clashes, err := conflict.Conflicts(t.Features)
			if err != nil {
				return err
			}
			printSuccess("Overlap graph generated")
			printKeyValue("Features", fmt.Sprint(len(t.Visible())))
			printKeyValue("Columns", fmt.Sprint(result.Layout.Columns))
			if len(clashes) > 0 {
				printWarning("%d overlapping pairs share a column", len(clashes))
			}
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "graph-format", "", "graph format: dot, svg (default: from extension, else dot)")

	return cmd
}

// graphFormat infers the output format from a file name.
func graphFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return "svg"
	}
	return "dot"
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
