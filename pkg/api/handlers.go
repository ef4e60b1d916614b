package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/trackbump/pkg/buildinfo"
	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/conflict"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
	pkgio "github.com/matzehuels/trackbump/pkg/io"
	"github.com/matzehuels/trackbump/pkg/layout"
	"github.com/matzehuels/trackbump/pkg/pipeline"
	"github.com/matzehuels/trackbump/pkg/store"
)

const defaultTrackName = "track"

// CreateRequest is the body of POST /v1/layouts.
type CreateRequest struct {
	// Track is a track in the JSON import format.
	Track      json.RawMessage `json:"track"`
	Mode       string          `json:"mode,omitempty"`
	Window     *feature.Window `json:"window,omitempty"`
	SplitParts bool            `json:"split_parts,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"`
}

// FeaturesResponse is the body of GET /v1/layouts/{id}/features.
type FeaturesResponse struct {
	Layout   string             `json:"layout"`
	Start    int                `json:"start"`
	End      int                `json:"end"`
	Features []layout.Placement `json:"features"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bump.Modes())
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{Track: r.URL.Query().Get("track")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		opts.Limit = n
	}
	ls, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Track) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "track is required"))
		return
	}

	mode := pipeline.DefaultMode
	if req.Mode != "" {
		m, err := bump.ParseMode(req.Mode)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		mode = m
	}

	t, err := pipeline.Import(bytes.NewReader(req.Track), pipeline.FormatJSON, pkgio.ImportOptions{
		Name:         defaultTrackName,
		BaseWidth:    s.defaults.BaseWidth,
		Spacing:      s.defaults.Spacing,
		DefaultWidth: s.defaults.DefaultWidth,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := t.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	l, res, hit, err := s.runner.LayoutWithCacheInfo(ctx, t, pipeline.Options{
		Mode:       mode,
		Window:     req.Window,
		SplitParts: req.SplitParts,
		Refresh:    req.Refresh,
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(ctx, l); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("layout created",
		"id", l.ID,
		"track", l.Track,
		"features", len(l.Features),
		"mode", res.Mode,
		"columns", l.Columns,
		"success", l.Success,
		"cached", hit)

	w.Header().Set("Location", "/v1/layouts/"+l.ID)
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusCreated, l)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueryFeatures(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hits, err := l.Query(win)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FeaturesResponse{
		Layout:   l.ID,
		Start:    win.Start,
		End:      win.End,
		Features: hits,
	})
}

// parseWindow reads the start and end query parameters.
func parseWindow(r *http.Request) (feature.Window, error) {
	q := r.URL.Query()
	start, err := strconv.Atoi(q.Get("start"))
	if err != nil {
		return feature.Window{}, errors.New(errors.ErrCodeInvalidWindow, "invalid start %q", q.Get("start"))
	}
	end, err := strconv.Atoi(q.Get("end"))
	if err != nil {
		return feature.Window{}, errors.New(errors.ErrCodeInvalidWindow, "invalid end %q", q.Get("end"))
	}
	win := feature.Window{Start: start, End: end}
	return win, win.Validate()
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot, err := conflict.ToDOT(l.Track, l.Placed())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := conflict.RenderSVG(ctx, dot)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("render graph: %w", err))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "invalid graph format %q (must be one of: dot, svg)", format))
	}
}
