// Package pipeline runs the import → bump → export pipeline shared by the
// CLI and the HTTP service.
//
// # Architecture
//
// The pipeline has two cached stages:
//
//  1. Import: read a GFF or JSON feature file into a track
//  2. Layout: run the bump engine over the track
//
// Each stage can be run on its own. Cache keys cover the content hash of
// the input plus every option that changes the result, so a rerun with
// the same file and options never touches the engine.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, engine, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input: "genes.gff3",
//	    Mode:  bump.ModeOverlap,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Layout.Columns)
//
// A pass that overflows the coordinate ceiling is not an error at this
// level: the result carries Success=false and the warning.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/cache"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
	"github.com/matzehuels/trackbump/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultBaseWidth is the unbumped track width.
	DefaultBaseWidth = 8.0

	// DefaultSpacing is the gap between bumped columns.
	DefaultSpacing = 2.0

	// DefaultMode is the layout policy used when none is given.
	DefaultMode = bump.ModeOverlap
)

// Input formats.
const (
	FormatGFF  = "gff"
	FormatJSON = "json"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatGFF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Import options
	Input        string   `json:"input,omitempty"`
	Format       string   `json:"format,omitempty"`
	TrackName    string   `json:"track_name,omitempty"`
	SeqName      string   `json:"seq_name,omitempty"`
	Types        []string `json:"types,omitempty"`
	DefaultWidth float64  `json:"default_width,omitempty"`
	BaseWidth    float64  `json:"base_width,omitempty"`
	Spacing      *float64 `json:"spacing,omitempty"`
	XOrigin      float64  `json:"x_origin,omitempty"`

	// Layout options
	Mode       bump.Mode       `json:"mode"`
	Window     *feature.Window `json:"window,omitempty"`
	SplitParts bool            `json:"split_parts,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"`

	// Output is an optional path for the layout JSON.
	Output string `json:"output,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Track     *feature.Track
	TrackHash string
	Layout    *layout.Layout
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	FeatureCount int
	Columns      int
	Evicted      int
	ImportTime   time.Duration
	LayoutTime   time.Duration
}

// CacheInfo tracks which stages were served from cache.
type CacheInfo struct {
	ImportHit bool
	LayoutHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: gff, json)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks the options for a full run and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForImport(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForImport checks the import options and applies defaults.
func (o *Options) ValidateForImport() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if o.Format != "" {
		if err := ValidateFormat(o.Format); err != nil {
			return err
		}
	}
	o.SetImportDefaults()
	if err := errors.ValidateWidth("base width", o.BaseWidth); err != nil {
		return err
	}
	if err := errors.ValidateWidth("default width", o.DefaultWidth); err != nil {
		return err
	}
	return errors.ValidateWidth("spacing", *o.Spacing)
}

// SetImportDefaults fills unset track dimensions.
func (o *Options) SetImportDefaults() {
	if o.BaseWidth == 0 {
		o.BaseWidth = DefaultBaseWidth
	}
	if o.DefaultWidth == 0 {
		o.DefaultWidth = o.BaseWidth
	}
	if o.Spacing == nil {
		s := DefaultSpacing
		o.Spacing = &s
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout checks the layout options.
func (o *Options) ValidateForLayout() error {
	if !o.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "invalid bump mode %d", int(o.Mode))
	}
	if o.Window != nil {
		if err := o.Window.Validate(); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Request returns the engine request for these options.
func (o *Options) Request() bump.Request {
	return bump.Request{Mode: o.Mode, Window: o.Window, SplitParts: o.SplitParts}
}

// ImportKeyOpts returns cache key options for the import stage.
func (o *Options) ImportKeyOpts(format string) cache.ImportKeyOpts {
	k := cache.ImportKeyOpts{
		Format:       format,
		SeqName:      o.SeqName,
		Types:        o.Types,
		DefaultWidth: o.DefaultWidth,
		BaseWidth:    o.BaseWidth,
	}
	if o.Spacing != nil {
		k.Spacing = *o.Spacing
	}
	return k
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts(ceiling float64) cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Mode:       o.Mode.String(),
		SplitParts: o.SplitParts,
		Ceiling:    ceiling,
	}
	if o.Window != nil {
		k.Window = &[2]int{o.Window.Start, o.Window.End}
	}
	return k
}
