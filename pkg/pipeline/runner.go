package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/cache"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
	pkgio "github.com/matzehuels/trackbump/pkg/io"
	"github.com/matzehuels/trackbump/pkg/layout"
	"github.com/matzehuels/trackbump/pkg/observability"
)

// Runner executes pipeline stages with caching. It holds no per-run state;
// the engine serialises passes internally, so one Runner may serve many
// goroutines.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Engine    *bump.Engine
	Logger    *log.Logger
	LayoutTTL time.Duration
}

// NewRunner creates a runner. Nil arguments select a NullCache, the
// DefaultKeyer, a default engine and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, engine *bump.Engine, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if engine == nil {
		engine = bump.NewEngine()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Engine: engine, Logger: logger, LayoutTTL: cache.TTLLayout}
}

// Execute runs import and layout, then writes the layout to opts.Output if
// set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	importStart := time.Now()
	t, importHit, err := r.ImportWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	result.Track = t
	result.Stats.ImportTime = time.Since(importStart)
	result.Stats.FeatureCount = len(t.Features)
	result.CacheInfo.ImportHit = importHit

	r.Logger.Info("imported features",
		"track", t.Name,
		"features", len(t.Features),
		"cached", importHit,
		"duration", result.Stats.ImportTime)

	layoutStart := time.Now()
	l, res, layoutHit, err := r.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Columns = l.Columns
	result.Stats.Evicted = res.Evicted
	result.CacheInfo.LayoutHit = layoutHit
	result.TrackHash, _ = TrackHash(t)

	r.Logger.Info("computed layout",
		"mode", l.Mode,
		"columns", l.Columns,
		"width", l.BumpedWidth,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	if opts.Output != "" {
		if err := l.WriteFile(opts.Output); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	return result, nil
}

// ImportWithCacheInfo reads opts.Input into a track and reports whether
// the parsed track came from cache.
func (r *Runner) ImportWithCacheInfo(ctx context.Context, opts Options) (*feature.Track, bool, error) {
	if err := opts.ValidateForImport(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Input)
		}
		return nil, false, fmt.Errorf("read %s: %w", opts.Input, err)
	}

	format := opts.Format
	if format == "" {
		format = FormatJSON
		if pkgio.IsGFF(opts.Input) {
			format = FormatGFF
		}
	}
	importOpts := pkgio.ImportOptions{
		Name:         opts.TrackName,
		SeqName:      opts.SeqName,
		Types:        opts.Types,
		DefaultWidth: opts.DefaultWidth,
		BaseWidth:    opts.BaseWidth,
		Spacing:      *opts.Spacing,
	}
	if importOpts.Name == "" {
		importOpts.Name = trackName(opts.Input)
	}
	key := r.Keyer.ImportKey(cache.Hash(data), opts.ImportKeyOpts(format))

	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if t, err := pkgio.ReadJSON(bytes.NewReader(cached), importOpts); err == nil {
				observability.Cache().OnCacheHit(ctx, "import")
				t.XOrigin = opts.XOrigin
				return t, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "import")
	}

	t, err := Import(bytes.NewReader(data), format, importOpts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(t, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLImport); err != nil {
			r.Logger.Debug("cache write failed", "stage", "import", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "import", buf.Len())
		}
	}
	t.XOrigin = opts.XOrigin
	return t, false, nil
}

// LayoutWithCacheInfo bumps t and reports whether the layout came from
// cache. On a hit the stored placements are applied to t and the layout
// gets a fresh ID. A pass rolled back for overflow returns a layout with
// Success=false and no error.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *feature.Track, opts Options) (*layout.Layout, bump.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, bump.Result{}, false, err
	}

	hash, err := TrackHash(t)
	if err != nil {
		return nil, bump.Result{}, false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts(r.Engine.Ceiling()))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := layout.Unmarshal(data); err == nil && l.Apply(t) == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				l.ID = layout.NewID()
				l.CreatedAt = time.Now().UTC()
				mode, _ := bump.ParseMode(l.Mode)
				res := bump.Result{
					Mode:        mode,
					Success:     l.Success,
					Warning:     l.Warning,
					Columns:     l.Columns,
					BumpedWidth: l.BumpedWidth,
				}
				return l, res, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	res, err := r.Bump(ctx, t, opts.Request())
	if err != nil && !errors.Is(err, errors.ErrCodeCoordinateOverflow) {
		return nil, res, false, err
	}

	l := layout.FromTrack(t, res)
	if data, err := l.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.LayoutTTL); err != nil {
			r.Logger.Debug("cache write failed", "stage", "layout", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, res, false, nil
}

// Bump runs one engine pass with hooks and logging. It returns the engine's
// error unchanged, including COORDINATE_OVERFLOW.
func (r *Runner) Bump(ctx context.Context, t *feature.Track, req bump.Request) (bump.Result, error) {
	observability.Bump().OnBumpStart(ctx, t.Name, req.Mode.String(), len(t.Features))
	res, err := r.Engine.Run(t, req)
	observability.Bump().OnBumpComplete(ctx, t.Name, req.Mode.String(), res.Columns, res.Duration, err)

	if errors.Is(err, errors.ErrCodeCoordinateOverflow) {
		observability.Bump().OnOverflow(ctx, t.Name, res.Attempted, r.Engine.Ceiling())
		r.Logger.Warn(res.Warning, "track", t.Name, "mode", req.Mode)
		return res, err
	}
	if err != nil {
		return res, err
	}
	r.Logger.Debug("bump pass",
		"track", t.Name,
		"mode", req.Mode,
		"packed", res.Packed,
		"hidden", res.Hidden,
		"evicted", res.Evicted,
		"columns", res.Columns,
		"duration", res.Duration)
	return res, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
