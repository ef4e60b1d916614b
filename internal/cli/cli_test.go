package cli

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/config"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
	"github.com/matzehuels/trackbump/pkg/layout"
)

const sampleTrack = `{
  "name": "genes",
  "features": [
    {"id": "a", "start": 1, "end": 10},
    {"id": "b", "start": 5, "end": 15},
    {"id": "c", "start": 20, "end": 30}
  ]
}`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBumpCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "genes.json", sampleTrack)
	cfg := writeFile(t, dir, "config.toml", "[cache]\nbackend = \"none\"\n")

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"bump", input, "--config", cfg})
	if err := root.Execute(); err != nil {
		t.Fatalf("bump: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "genes.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if !l.Success || l.Columns != 2 || l.Mode != "overlap" {
		t.Errorf("layout = success %v, %d columns, mode %s; want success, 2 columns, overlap", l.Success, l.Columns, l.Mode)
	}
}

func TestBumpCommandRejectsBadMode(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "genes.json", sampleTrack)
	cfg := writeFile(t, dir, "config.toml", "[cache]\nbackend = \"none\"\n")

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"bump", input, "--config", cfg, "--mode", "sideways"})
	err := root.Execute()
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Fatalf("bump --mode sideways = %v, want INVALID_MODE", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "genes.layout.json")); !os.IsNotExist(err) {
		t.Error("layout written despite invalid mode")
	}
}

func TestModesCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"modes", "--config", writeFile(t, t.TempDir(), "c.toml", "")})
	if err := root.Execute(); err != nil {
		t.Fatalf("modes: %v", err)
	}
	for _, want := range []string{"unbump", "overlap *", "alternating", "name-interleave", "alias"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("modes output missing %q", want)
		}
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    feature.Window
		wantErr bool
	}{
		{"100:200", feature.Window{Start: 100, End: 200}, false},
		{"100-200", feature.Window{Start: 100, End: 200}, false},
		{" 5 : 5 ", feature.Window{Start: 5, End: 5}, false},
		{"200:100", feature.Window{}, true},
		{"100", feature.Window{}, true},
		{"a:10", feature.Window{}, true},
		{"1:b", feature.Window{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWindow(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidWindow) {
					t.Fatalf("parseWindow(%q) error = %v, want INVALID_WINDOW", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseWindow(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseWindow(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsFlagsOverrideConfig(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Track.Spacing = 4
	c.Config.Track.BaseWidth = 10
	c.Config.Bump.Mode = bump.ModeAlternating

	tests := []struct {
		name        string
		args        []string
		wantSpacing float64
		wantBase    float64
		wantMode    bump.Mode
		wantWindow  bool
	}{
		{"config only", nil, 4, 10, bump.ModeAlternating, false},
		{"zero spacing flag", []string{"--spacing", "0"}, 0, 10, bump.ModeAlternating, false},
		{"mode and width", []string{"--mode", "name-no-interleave", "--base-width", "6"}, 4, 6, bump.ModeAll, false},
		{"window", []string{"--window", "1:100"}, 4, 10, bump.ModeAlternating, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f trackFlags
			cmd := &cobra.Command{Use: "test"}
			f.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			opts, err := c.options(cmd, "genes.json", &f)
			if err != nil {
				t.Fatalf("options: %v", err)
			}
			if *opts.Spacing != tt.wantSpacing {
				t.Errorf("spacing = %v, want %v", *opts.Spacing, tt.wantSpacing)
			}
			if opts.BaseWidth != tt.wantBase {
				t.Errorf("base width = %v, want %v", opts.BaseWidth, tt.wantBase)
			}
			if opts.Mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", opts.Mode, tt.wantMode)
			}
			if (opts.Window != nil) != tt.wantWindow {
				t.Errorf("window = %v, want set %v", opts.Window, tt.wantWindow)
			}
		})
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name  string
		cache config.Cache
		want  string
	}{
		{"file", config.Cache{Backend: config.CacheFile, Dir: "/tmp/tb"}, "/tmp/tb"},
		{"redis", config.Cache{Backend: config.CacheRedis, RedisAddr: "cache:6379"}, "redis://cache:6379"},
		{"none", config.Cache{Backend: config.CacheNone}, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&bytes.Buffer{}, LogInfo)
			c.Config.Cache = tt.cache
			if got := c.cacheLocation(); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Dir = ""
	if got := c.cacheDir(); got != config.DefaultCacheDir() {
		t.Errorf("cacheDir() with empty dir = %q, want %q", got, config.DefaultCacheDir())
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := map[string]string{
		"genes.gff3":          "genes.layout.json",
		"data/track.json":     "data/track.layout.json",
		"noext":               "noext.layout.json",
		"/abs/path/x.gff.gtf": "/abs/path/x.gff.layout.json",
	}
	for in, want := range tests {
		if got := defaultOutput(in); got != want {
			t.Errorf("defaultOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGraphFormat(t *testing.T) {
	tests := map[string]string{
		"":            "dot",
		"out.dot":     "dot",
		"out.svg":     "svg",
		"OUT.SVG":     "svg",
		"out.svg.dot": "dot",
	}
	for in, want := range tests {
		if got := graphFormat(in); got != want {
			t.Errorf("graphFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColumnSummary(t *testing.T) {
	l := &layout.Layout{Features: []layout.Placement{
		{ID: "a", Column: 0}, {ID: "b", Column: 1}, {ID: "c", Column: 0},
	}}
	got := columnSummary(l)
	if strings.Count(got, "\n") != 2 {
		t.Fatalf("columnSummary() lines = %d, want 2:\n%s", strings.Count(got, "\n"), got)
	}
	if !strings.Contains(got, "col  0") || !strings.Contains(got, "col  1") {
		t.Errorf("columnSummary() missing column labels:\n%s", got)
	}
	if columnSummary(&layout.Layout{}) != "" {
		t.Error("columnSummary() of empty layout is not empty")
	}
}

func TestSyntheticTrack(t *testing.T) {
	tr := syntheticTrack(rand.New(rand.NewPCG(1, 2)), 500, 1000, 50)
	if len(tr.Features) != 500 {
		t.Fatalf("features = %d, want 500", len(tr.Features))
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("synthetic track invalid: %v", err)
	}
	for _, f := range tr.Features {
		if f.Extent.Start < 1 || f.Extent.Start > 1000 || f.Extent.Len() > 50 {
			t.Fatalf("feature %s extent %v out of range", f.ID, f.Extent)
		}
	}

	again := syntheticTrack(rand.New(rand.NewPCG(1, 2)), 500, 1000, 50)
	if again.Features[499].Extent != tr.Features[499].Extent {
		t.Error("syntheticTrack is not deterministic for a fixed seed")
	}
}

func TestModesTable(t *testing.T) {
	got := modesTable(bump.Modes(), bump.ModeAll)
	if !strings.Contains(got, "all *") {
		t.Errorf("modesTable() does not mark default:\n%s", got)
	}
	if strings.Contains(got, "overlap *") {
		t.Errorf("modesTable() marks a non-default mode:\n%s", got)
	}
}

// =============================================================================
// Viewer
// =============================================================================

func viewTrack() *feature.Track {
	tr := feature.NewTrack("genes", 8, 2)
	tr.Add(
		&feature.Feature{ID: "a", Name: "alpha", Extent: feature.Extent{Start: 1, End: 10}},
		&feature.Feature{ID: "b", Name: "beta", Extent: feature.Extent{Start: 5, End: 15}},
		&feature.Feature{ID: "c", Name: "gamma", Extent: feature.Extent{Start: 20, End: 30}},
	)
	return tr
}

func TestColumnStrip(t *testing.T) {
	fs := []*feature.Feature{
		{Extent: feature.Extent{Start: 1, End: 10}},
		{Extent: feature.Extent{Start: 91, End: 100}},
	}
	tests := []struct {
		name   string
		lo, hi int
		width  int
		want   string
	}{
		{"ends", 1, 100, 10, "█········█"},
		{"zero width", 1, 100, 0, ""},
		{"single position", 5, 5, 3, "█··"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fs
			if tt.lo == tt.hi {
				in = []*feature.Feature{{Extent: feature.Extent{Start: 5, End: 5}}}
			}
			if got := columnStrip(in, tt.lo, tt.hi, tt.width); got != tt.want {
				t.Errorf("columnStrip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupColumns(t *testing.T) {
	tr := viewTrack()
	if _, err := bump.NewEngine().Run(tr, bump.Request{Mode: bump.ModeOverlap}); err != nil {
		t.Fatalf("bump: %v", err)
	}
	cols := groupColumns(tr.Visible())
	if len(cols) != 2 {
		t.Fatalf("groupColumns() = %d columns, want 2", len(cols))
	}
	if len(cols[0]) != 2 || len(cols[1]) != 1 || cols[1][0].ID != "b" {
		t.Errorf("groupColumns() = %v", cols)
	}
}

func TestNextMode(t *testing.T) {
	m := viewModes[0]
	seen := map[bump.Mode]bool{}
	for range viewModes {
		seen[m] = true
		m = nextMode(m)
	}
	if m != viewModes[0] || len(seen) != len(viewModes) {
		t.Errorf("nextMode does not cycle through %v", viewModes)
	}
}

func TestColumnViewModelUpdate(t *testing.T) {
	m := NewColumnViewModel(viewTrack(), bump.NewEngine(), bump.ModeOverlap, nil)
	if m.Err != nil {
		t.Fatalf("initial bump: %v", m.Err)
	}
	if len(m.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(m.Columns))
	}

	press := func(m ColumnViewModel, key string) ColumnViewModel {
		var msg tea.KeyMsg
		switch key {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		return next.(ColumnViewModel)
	}

	m = press(m, "down")
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}
	m = press(m, "j")
	if m.Cursor != 1 {
		t.Errorf("cursor moved past last column: %d", m.Cursor)
	}
	m = press(m, "k")
	if m.Cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.Cursor)
	}

	m = press(m, "m")
	if m.Mode != nextMode(bump.ModeOverlap) {
		t.Errorf("mode after m = %v", m.Mode)
	}
	if m.Result.Mode != m.Mode || len(m.Columns) != m.Result.Columns {
		t.Errorf("view not rebumped: result %v with %d columns, grouped %d", m.Result.Mode, m.Result.Columns, len(m.Columns))
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q did not quit")
	}

	if !strings.Contains(m.View(), "genes") {
		t.Error("View() missing track name")
	}
}
