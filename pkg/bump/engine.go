package bump

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
)

// Request describes one bump pass.
type Request struct {
	Mode Mode

	// Window restricts layout to features overlapping it. Features lying
	// entirely outside are flagged Hidden and skipped.
	Window *feature.Window

	// SplitParts packs each part of a compound feature as its own item
	// instead of packing the union span.
	SplitParts bool
}

// Result summarises a pass.
type Result struct {
	Mode        Mode
	Success     bool
	Warning     string
	Columns     int
	BumpedWidth float64
	Packed      int
	Hidden      int
	Evicted     int
	Duration    time.Duration

	// Attempted is the width the pass needed when it was rolled back for
	// overflow.
	Attempted float64
}

// Engine runs bump passes. It owns a reusable allocator and admits one
// pass at a time.
type Engine struct {
	mu      sync.Mutex
	alloc   Allocator
	ceiling float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithAllocator replaces the default RangePool.
func WithAllocator(a Allocator) Option { return func(e *Engine) { e.alloc = a } }

// WithBatchSize backs the engine with a RangePool growing by n records.
func WithBatchSize(n int) Option { return func(e *Engine) { e.alloc = NewRangePool(n) } }

// WithCeiling sets the coordinate ceiling checked after every pass.
func WithCeiling(c float64) Option { return func(e *Engine) { e.ceiling = c } }

// NewEngine creates an engine backed by a RangePool of DefaultBatchSize.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{ceiling: DefaultCoordinateCeiling}
	for _, opt := range opts {
		opt(e)
	}
	if e.alloc == nil {
		e.alloc = NewRangePool(DefaultBatchSize)
	}
	if e.ceiling <= 0 {
		e.ceiling = DefaultCoordinateCeiling
	}
	return e
}

// Ceiling returns the engine's coordinate ceiling.
func (e *Engine) Ceiling() float64 { return e.ceiling }

// Run lays out t according to req and writes each feature's column and
// offset back onto it.
//
// If the packed track would cross the coordinate ceiling, Run re-runs the
// pass in UNBUMP mode and returns a Result with Success false and a
// user-facing Warning, together with a COORDINATE_OVERFLOW error. A
// MALFORMED_EXTENT error is returned before any feature is touched.
func (e *Engine) Run(t *feature.Track, req Request) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t.Lock()
	defer t.Unlock()

	start := time.Now()
	if !req.Mode.Valid() {
		return Result{}, errors.New(errors.ErrCodeInvalidMode, "invalid bump mode %d", int(req.Mode))
	}
	if req.Window != nil {
		if err := req.Window.Validate(); err != nil {
			return Result{}, err
		}
	}
	for _, f := range t.Features {
		if err := f.Validate(); err != nil {
			return Result{}, fmt.Errorf("feature %s: %w", f.ID, err)
		}
	}

	if req.Mode == ModeUnbump {
		res := unbump(t)
		res.Duration = time.Since(start)
		return res, nil
	}

	p := e.newPass(t, req)
	defer p.release()

	res := p.run()
	if limit := res.BumpedWidth + t.XOrigin; limit > e.ceiling {
		width := res.BumpedWidth
		res = unbump(t)
		res.Success = false
		res.Attempted = width
		res.Warning = fmt.Sprintf(
			"too many features to fit in track %q when bumped (%.0f units needed, limit %.0f); try restricting the region",
			t.Name, limit, e.ceiling)
		res.Duration = time.Since(start)
		return res, errors.New(errors.ErrCodeCoordinateOverflow,
			"bumped width %.0f at origin %.0f exceeds coordinate ceiling %.0f", width, t.XOrigin, e.ceiling)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// unbump restores every feature to its pre-bump state.
func unbump(t *feature.Track) Result {
	for _, f := range t.Features {
		f.RestoreOffset()
		f.Hidden = false
		f.Summarised = false
	}
	t.Bumped = false
	t.BumpedWidth = t.BaseWidth

	res := Result{Mode: ModeUnbump, Success: true, BumpedWidth: t.BaseWidth}
	if len(t.Features) > 0 {
		res.Columns = 1
	}
	return res
}

// =============================================================================
// Pass
// =============================================================================

// item is one unit of layout: a whole feature, or a single part when
// parts are packed separately.
type item struct {
	f      *feature.Feature
	part   int
	extent feature.Extent
	width  float64
	column int
}

// Pass holds the state of one bump invocation: the chosen mode and
// spacing, per-column widths and offsets, the window filter, the running
// column counter and the column track. It is discarded when the pass ends.
type Pass struct {
	mode     Mode
	track    *feature.Track
	window   *feature.Window
	split    bool
	resolver WidthOffsetResolver

	alloc   Allocator
	columns *ColumnTrack
	widths  ColumnWidths
	offsets []float64
	counter int

	items  []item
	hidden int
}

func (e *Engine) newPass(t *feature.Track, req Request) *Pass {
	return &Pass{
		mode:     req.Mode,
		track:    t,
		window:   req.Window,
		split:    req.SplitParts,
		resolver: WidthOffsetResolver{Spacing: t.Spacing, BaseWidth: t.BaseWidth},
		alloc:    e.alloc,
		columns:  NewColumnTrack(e.alloc),
	}
}

// release returns every column record to the allocator.
func (p *Pass) release() {
	p.columns.Reset()
	p.alloc.Reset()
}

func (p *Pass) run() Result {
	p.collect()

	switch p.mode {
	case ModeAll:
		p.assign(func(int) int { return p.next() })
	case ModeAlternating:
		p.assign(func(i int) int { return i % 2 })
	case ModeOverlap:
		packer := NewOverlapPacker(p.columns, &p.widths)
		for i := range p.items {
			p.items[i].column = packer.Pack(p.items[i].extent, p.items[i].width)
		}
	}

	widths := p.widths.Slice()
	offsets, total := p.resolver.Resolve(widths)
	p.offsets = offsets
	p.writeBack()

	res := Result{
		Mode:    p.mode,
		Success: true,
		Columns: p.widths.Len(),
		Packed:  len(p.items),
		Hidden:  p.hidden,
		Evicted: p.columns.Evicted(),
	}
	p.track.Bumped = true
	if res.Columns == 0 {
		p.track.BumpedWidth = p.track.BaseWidth
	} else {
		p.track.BumpedWidth = total
	}
	res.BumpedWidth = p.track.BumpedWidth
	return res
}

// next hands out the next unused column.
func (p *Pass) next() int {
	c := p.counter
	p.counter++
	return c
}

func (p *Pass) assign(column func(i int) int) {
	for i := range p.items {
		c := column(i)
		p.items[i].column = c
		p.widths.Record(c, p.items[i].width)
	}
}

// collect saves pre-bump offsets, applies the window filter and builds the
// start-sorted item list.
func (p *Pass) collect() {
	p.items = p.items[:0]
	for _, f := range p.track.Features {
		f.SaveOffset()
		span := f.Span()
		if p.window != nil && p.window.Excludes(span) {
			f.ClearLayout()
			f.Hidden = true
			p.hidden++
			continue
		}
		f.Hidden = false

		width := f.Width
		if width <= 0 {
			width = p.track.BaseWidth
		}
		if p.split && f.IsCompound() {
			for i, part := range f.Parts {
				p.items = append(p.items, item{f: f, part: i, extent: part.Extent, width: width})
			}
			continue
		}
		p.items = append(p.items, item{f: f, part: -1, extent: span, width: width})
	}
	slices.SortStableFunc(p.items, func(a, b item) int {
		if c := cmp.Compare(a.extent.Start, b.extent.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.extent.End, b.extent.End)
	})
}

// writeBack stores each item's column and corrected offset on its feature.
// Whole features pass their layout on to their parts. With split parts the
// feature takes the layout of its earliest-starting part.
func (p *Pass) writeBack() {
	widths := p.widths.Slice()
	seen := make(map[*feature.Feature]bool)
	for _, it := range p.items {
		l := feature.Layout{
			Column: it.column,
			Offset: p.resolver.FeatureOffset(p.offsets, widths, it.column),
		}
		if it.part < 0 {
			it.f.Layout = l
			it.f.InheritLayout()
			continue
		}
		it.f.Parts[it.part].Layout = l
		if !seen[it.f] {
			it.f.Layout = l
			seen[it.f] = true
		}
	}
}
