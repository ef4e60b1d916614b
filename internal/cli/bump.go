package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/layout"
	"github.com/matzehuels/trackbump/pkg/pipeline"
)

// maxColumnSummary is the largest column count printed as a histogram.
const maxColumnSummary = 24

// bumpCommand creates the bump command, the main entry point.
func (c *CLI) bumpCommand() *cobra.Command {
	var (
		flags  trackFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "bump [features.gff3|track.json]",
		Short: "Lay out a feature file into non-overlapping columns",
		Long: `Lay out a feature file into non-overlapping columns.

The input is GFF3 (.gff, .gff3, .gtf) or a JSON track. The layout, with every
feature's column and horizontal offset, is written as JSON next to the
input unless -o is given.

If the bumped track would not fit within the coordinate ceiling the track is
left unbumped and a warning is printed; the layout is still written.

Results are cached, so re-running with the same file and options is instant.`,
		Example: `  trackbump bump genes.gff3
  trackbump bump genes.gff3 --mode all -o genes.all.json
  trackbump bump genes.gff3 --window 10000:25000 --types gene,mRNA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			opts.Output = output
			if opts.Output == "" {
				opts.Output = defaultOutput(args[0])
			}
			return c.runBump(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

func (c *CLI) runBump(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Bumping %s...", filepath.Base(opts.Input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Bump failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	l := result.Layout
	if l.Success {
		printSuccess("Bumped %s (%s)", StyleHighlight.Render(l.Track), l.Mode)
	} else {
		printWarning("%s", l.Warning)
	}
	printFile(opts.Output)
	printStats(result.Stats.FeatureCount, l.Columns, l.BumpedWidth, result.CacheInfo.LayoutHit)
	if l.Columns > 1 && l.Columns <= maxColumnSummary {
		printNewline()
		fmt.Print(columnSummary(l))
	}
	printNewline()
	printNextStep("Browse", "trackbump view "+opts.Input)

	return nil
}

// columnSummary renders one bar per column, scaled to the fullest column.
func columnSummary(l *layout.Layout) string {
	counts := l.ColumnCounts()
	most := 0
	for _, n := range counts {
		most = max(most, n)
	}
	if most == 0 {
		return ""
	}

	const barWidth = 30
	var b strings.Builder
	for col, n := range counts {
		bar := strings.Repeat("█", max(1, n*barWidth/most))
		fmt.Fprintf(&b, "  %s %s %s\n",
			StyleDim.Render(fmt.Sprintf("col %2d", col)),
			columnStyle(col).Render(bar),
			StyleNumber.Render(fmt.Sprint(n)))
	}
	return b.String()
}

// defaultOutput derives the layout path from the input path.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
