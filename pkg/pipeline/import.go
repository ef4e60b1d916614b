package pipeline

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/trackbump/pkg/cache"
	"github.com/matzehuels/trackbump/pkg/feature"
	pkgio "github.com/matzehuels/trackbump/pkg/io"
)

// Import parses r in the given format.
func Import(r io.Reader, format string, opts pkgio.ImportOptions) (*feature.Track, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return pkgio.ReadJSON(r, opts)
	}
	fs, err := pkgio.ReadGFF(r, opts)
	if err != nil {
		return nil, err
	}
	t := feature.NewTrack(opts.Name, opts.BaseWidth, opts.Spacing)
	t.Add(fs...)
	return t, nil
}

// TrackHash returns the content hash of t's features and dimensions.
// Layout state does not contribute.
func TrackHash(t *feature.Track) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(t, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

func trackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
