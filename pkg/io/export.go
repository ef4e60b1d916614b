package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/trackbump/pkg/feature"
)

type trackFile struct {
	Name      string   `json:"name"`
	BaseWidth float64  `json:"base_width,omitempty"`
	Spacing   *float64 `json:"spacing,omitempty"`
	XOrigin   float64  `json:"x_origin,omitempty"`
	Features  []record `json:"features"`
}

type record struct {
	ID      string       `json:"id"`
	Name    string       `json:"name,omitempty"`
	SeqName string       `json:"seq,omitempty"`
	Type    string       `json:"type,omitempty"`
	Strand  string       `json:"strand,omitempty"`
	Start   int          `json:"start"`
	End     int          `json:"end"`
	Width   float64      `json:"width,omitempty"`
	Parts   []partRecord `json:"parts,omitempty"`
}

type partRecord struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind,omitempty"`
}

// WriteJSON encodes a track in the format read by [ReadJSON].
// Layout state is not written; see package layout for that.
func WriteJSON(t *feature.Track, w io.Writer) error {
	spacing := t.Spacing
	out := trackFile{
		Name:      t.Name,
		BaseWidth: t.BaseWidth,
		Spacing:   &spacing,
		XOrigin:   t.XOrigin,
		Features:  make([]record, len(t.Features)),
	}
	for i, f := range t.Features {
		rec := record{
			ID:      f.ID,
			Name:    f.Name,
			SeqName: f.SeqName,
			Type:    f.Type,
			Strand:  f.Strand,
			Start:   f.Extent.Start,
			End:     f.Extent.End,
			Width:   f.Width,
		}
		for _, p := range f.Parts {
			rec.Parts = append(rec.Parts, partRecord{Start: p.Extent.Start, End: p.Extent.End, Kind: p.Kind})
		}
		out.Features[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a track to a JSON file at path.
func ExportJSON(t *feature.Track, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
