package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
)

// ImportOptions controls how features are read and which track defaults
// apply when the input does not set them.
type ImportOptions struct {
	// Name is the track name. Defaults to the file name without extension.
	Name string
	// SeqName keeps only GFF records on this sequence. Empty keeps all.
	SeqName string
	// Types keeps only GFF records of these feature types. Parts are never
	// filtered. Empty keeps all.
	Types []string

	DefaultWidth float64
	BaseWidth    float64
	Spacing      float64
}

func (o ImportOptions) width(w float64) float64 {
	if w > 0 {
		return w
	}
	return o.DefaultWidth
}

// ReadJSON decodes a JSON track from r.
//
// Track dimensions missing from the input are taken from opts. ReadJSON
// returns an error if the JSON is malformed, a feature has no id, or two
// features share an id. Extents are not validated here; the engine
// rejects malformed ones before laying out. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ImportOptions) (*feature.Track, error) {
	var data trackFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode track")
	}

	name := data.Name
	if name == "" {
		name = opts.Name
	}
	baseWidth := data.BaseWidth
	if baseWidth == 0 {
		baseWidth = opts.BaseWidth
	}
	spacing := opts.Spacing
	if data.Spacing != nil {
		spacing = *data.Spacing
	}

	t := feature.NewTrack(name, baseWidth, spacing)
	t.XOrigin = data.XOrigin

	seen := make(map[string]bool, len(data.Features))
	for i, rec := range data.Features {
		if rec.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "feature %d: missing id", i)
		}
		if seen[rec.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "feature %s: duplicate id", rec.ID)
		}
		seen[rec.ID] = true

		f := &feature.Feature{
			ID:      rec.ID,
			Name:    rec.Name,
			SeqName: rec.SeqName,
			Type:    rec.Type,
			Strand:  rec.Strand,
			Extent:  feature.Extent{Start: rec.Start, End: rec.End},
			Width:   opts.width(rec.Width),
		}
		for _, p := range rec.Parts {
			f.Parts = append(f.Parts, feature.Part{
				Extent: feature.Extent{Start: p.Start, End: p.End},
				Kind:   p.Kind,
			})
		}
		t.Add(f)
	}
	return t, nil
}

// ImportFile reads the track at path, choosing GFF or JSON by extension.
func ImportFile(path string, opts ImportOptions) (*feature.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if opts.Name == "" {
		base := filepath.Base(path)
		opts.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if IsGFF(path) {
		fs, err := ReadGFF(f, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t := feature.NewTrack(opts.Name, opts.BaseWidth, opts.Spacing)
		t.Add(fs...)
		return t, nil
	}

	t, err := ReadJSON(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// IsGFF reports whether path names a GFF file.
func IsGFF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gff", ".gff3", ".gff2", ".gtf":
		return true
	}
	return false
}
