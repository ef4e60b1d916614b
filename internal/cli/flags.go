package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
	"github.com/matzehuels/trackbump/pkg/pipeline"
)

// trackFlags are the import and layout flags shared by commands that read
// a feature file. Unset flags fall back to the loaded config.
type trackFlags struct {
	format       string
	name         string
	seq          string
	types        []string
	baseWidth    float64
	spacing      float64
	defaultWidth float64
	xOrigin      float64
	mode         string
	window       string
	splitParts   bool
	refresh      bool
	noCache      bool
}

func (f *trackFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", "", "input format: gff, json (default: from extension)")
	fl.StringVar(&f.name, "name", "", "track name (default: input file name)")
	fl.StringVar(&f.seq, "seq", "", "keep only features on this sequence (GFF)")
	fl.StringSliceVar(&f.types, "types", nil, "keep only these feature types (GFF, comma-separated)")
	fl.Float64Var(&f.baseWidth, "base-width", 0, "unbumped track width (default: from config)")
	fl.Float64Var(&f.spacing, "spacing", 0, "gap between columns (default: from config)")
	fl.Float64Var(&f.defaultWidth, "default-width", 0, "width of features that set none (default: from config)")
	fl.Float64Var(&f.xOrigin, "x-origin", 0, "left edge of the track in window coordinates")
	fl.StringVarP(&f.mode, "mode", "m", "", "bump mode (see 'trackbump modes'; default: from config)")
	fl.StringVarP(&f.window, "window", "w", "", "lay out only features overlapping start:end")
	fl.BoolVar(&f.splitParts, "split-parts", false, "pack each part of a compound feature separately")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options builds pipeline options for input from the flags and config.
func (c *CLI) options(cmd *cobra.Command, input string, f *trackFlags) (pipeline.Options, error) {
	cfg := c.Config
	fl := cmd.Flags()
	opts := pipeline.Options{
		Input:        input,
		Format:       f.format,
		TrackName:    f.name,
		SeqName:      f.seq,
		Types:        f.types,
		BaseWidth:    cfg.Track.BaseWidth,
		DefaultWidth: cfg.Track.DefaultWidth,
		XOrigin:      cfg.Track.XOrigin,
		Mode:         cfg.Bump.Mode,
		SplitParts:   cfg.Bump.SplitParts,
		Refresh:      f.refresh,
		Logger:       c.Logger,
	}
	spacing := cfg.Track.Spacing
	if fl.Changed("spacing") {
		spacing = f.spacing
	}
	opts.Spacing = &spacing
	if fl.Changed("base-width") {
		opts.BaseWidth = f.baseWidth
	}
	if fl.Changed("default-width") {
		opts.DefaultWidth = f.defaultWidth
	}
	if fl.Changed("x-origin") {
		opts.XOrigin = f.xOrigin
	}
	if fl.Changed("split-parts") {
		opts.SplitParts = f.splitParts
	}
	if f.mode != "" {
		m, err := bump.ParseMode(f.mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = m
	}
	if f.window != "" {
		w, err := parseWindow(f.window)
		if err != nil {
			return opts, err
		}
		opts.Window = &w
	}
	return opts, opts.ValidateAndSetDefaults()
}

// parseWindow parses "start:end" or "start-end".
func parseWindow(s string) (feature.Window, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	lo, hi, ok := strings.Cut(s, sep)
	if !ok {
		return feature.Window{}, errors.New(errors.ErrCodeInvalidWindow, "invalid window %q (want start:end)", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return feature.Window{}, errors.New(errors.ErrCodeInvalidWindow, "invalid window start %q", lo)
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return feature.Window{}, errors.New(errors.ErrCodeInvalidWindow, "invalid window end %q", hi)
	}
	w := feature.Window{Start: start, End: end}
	return w, w.Validate()
}
