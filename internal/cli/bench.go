package cli

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/feature"
)

// benchOpts holds the flags of the bench command.
type benchOpts struct {
	features   int
	span       int
	maxLen     int
	rounds     int
	seed       uint64
	modes      []string
	allocators []string
	profile    string
	profileDir string
}

// benchRow is one measured allocator and mode combination.
type benchRow struct {
	allocator string
	mode      bump.Mode
	columns   int
	evicted   int
	best      time.Duration
}

// benchCommand times the engine on synthetic tracks.
func (c *CLI) benchCommand() *cobra.Command {
	opts := benchOpts{
		features:   100_000,
		span:       10_000_000,
		maxLen:     5_000,
		rounds:     3,
		seed:       42,
		modes:      []string{"overlap", "all"},
		allocators: []string{bump.AllocatorPool, bump.AllocatorHeap},
		profileDir: ".",
	}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the bump engine on a synthetic track",
		Long: `Time the bump engine on a synthetic track of random features.

Each allocator and mode combination is run --rounds times and the fastest
round is reported. With --profile the whole run is profiled and the profile
is written to --profile-dir.`,
		Example: `  trackbump bench
  trackbump bench -n 1000000 --profile cpu --profile-dir /tmp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBench(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.features, "features", "n", opts.features, "number of features")
	cmd.Flags().IntVar(&opts.span, "span", opts.span, "coordinate range features are placed in")
	cmd.Flags().IntVar(&opts.maxLen, "max-length", opts.maxLen, "longest feature")
	cmd.Flags().IntVar(&opts.rounds, "rounds", opts.rounds, "runs per combination")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().StringSliceVar(&opts.modes, "modes", opts.modes, "modes to time")
	cmd.Flags().StringSliceVar(&opts.allocators, "allocators", opts.allocators, "allocators to time: pool, heap")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "profile the run: cpu, mem")
	cmd.Flags().StringVar(&opts.profileDir, "profile-dir", opts.profileDir, "directory for profile output")

	return cmd
}

func (c *CLI) runBench(cmd *cobra.Command, opts benchOpts) error {
	if opts.features <= 0 || opts.span <= 0 || opts.maxLen <= 0 || opts.rounds <= 0 {
		return fmt.Errorf("--features, --span, --max-length and --rounds must be positive")
	}
	modes := make([]bump.Mode, len(opts.modes))
	for i, name := range opts.modes {
		m, err := bump.ParseMode(name)
		if err != nil {
			return err
		}
		modes[i] = m
	}

	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.profileDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(opts.profileDir), profile.Quiet).Stop()
	default:
		return fmt.Errorf("invalid profile %q (must be one of: cpu, mem)", opts.profile)
	}

	ctx := cmd.Context()
	prog := newProgress(c.Logger)
	track := syntheticTrack(rand.New(rand.NewPCG(opts.seed, opts.seed)), opts.features, opts.span, opts.maxLen)
	prog.done(fmt.Sprintf("Generated %d features", opts.features))

	var rows []benchRow
	for _, kind := range opts.allocators {
		alloc, err := bump.NewAllocator(kind, c.Config.Bump.BatchSize)
		if err != nil {
			return err
		}
		engine := bump.NewEngine(bump.WithAllocator(alloc), bump.WithCeiling(math.Inf(1)))
		for _, mode := range modes {
			row := benchRow{allocator: kind, mode: mode, best: time.Duration(math.MaxInt64)}
			for range opts.rounds {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := engine.Run(track, bump.Request{Mode: mode})
				if err != nil {
					return err
				}
				row.columns, row.evicted = res.Columns, res.Evicted
				row.best = min(row.best, res.Duration)
			}
			c.Logger.Debug("bench", "allocator", kind, "mode", mode, "best", row.best)
			rows = append(rows, row)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), benchTable(rows, opts.features))
	if opts.profile != "" {
		printFile(opts.profileDir)
	}
	return nil
}

// syntheticTrack scatters n features of random length over [1, span].
func syntheticTrack(rng *rand.Rand, n, span, maxLen int) *feature.Track {
	t := feature.NewTrack("bench", 8, 2)
	t.Features = make([]*feature.Feature, n)
	for i := range n {
		start := 1 + rng.IntN(span)
		t.Features[i] = &feature.Feature{
			ID:     fmt.Sprintf("f%d", i),
			Extent: feature.Extent{Start: start, End: start + rng.IntN(maxLen)},
			Width:  8,
		}
	}
	return t
}

func benchTable(rows []benchRow, features int) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		perFeature := float64(r.best.Nanoseconds()) / float64(features)
		data[i] = []string{
			r.allocator,
			r.mode.String(),
			fmt.Sprint(r.columns),
			fmt.Sprint(r.evicted),
			r.best.Round(time.Microsecond).String(),
			fmt.Sprintf("%.0f", perFeature),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Allocator", "Mode", "Columns", "Evicted", "Best", "ns/feature").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col >= 4 {
				return StyleNumber.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
