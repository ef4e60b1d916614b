package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
)

var fastaDirective = []byte("##FASTA")

type gffRecord struct {
	id      string
	name    string
	typ     string
	seqName string
	strand  string
	parents []string
	extent  feature.Extent
}

// ReadGFF reads GFF records from r and groups them into features.
// Feature order follows the input. ReadGFF does not close r.
func ReadGFF(r io.Reader, opts ImportOptions) ([]*feature.Feature, error) {
	records, err := scanGFF(r, opts.SeqName)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(records))
	hasChildren := make(map[string]bool)
	for _, rec := range records {
		known[rec.id] = true
		for _, p := range rec.parents {
			hasChildren[p] = true
		}
	}

	keep := typeFilter(opts.Types)
	var out []*feature.Feature
	byID := make(map[string]*feature.Feature)
	var parts []gffRecord
	for _, rec := range records {
		if isPart(rec, known, hasChildren) {
			parts = append(parts, rec)
			continue
		}
		if !keep(rec.typ) {
			continue
		}
		f := &feature.Feature{
			ID:      rec.id,
			Name:    rec.name,
			SeqName: rec.seqName,
			Type:    rec.typ,
			Strand:  rec.strand,
			Extent:  rec.extent,
			Width:   opts.DefaultWidth,
		}
		out = append(out, f)
		byID[rec.id] = f
	}

	for _, rec := range parts {
		for _, p := range rec.parents {
			if f, ok := byID[p]; ok {
				f.Parts = append(f.Parts, feature.Part{Extent: rec.extent, Kind: rec.typ})
			}
		}
	}
	for _, f := range out {
		f.Span()
	}
	return out, nil
}

func isPart(rec gffRecord, known, hasChildren map[string]bool) bool {
	if len(rec.parents) == 0 || hasChildren[rec.id] {
		return false
	}
	for _, p := range rec.parents {
		if known[p] {
			return true
		}
	}
	return false
}

func typeFilter(types []string) func(string) bool {
	if len(types) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[strings.ToLower(t)] = true
	}
	return func(typ string) bool { return set[strings.ToLower(typ)] }
}

func scanGFF(r io.Reader, seqName string) ([]gffRecord, error) {
	sc := featio.NewScanner(gff.NewReader(newDirectiveFilter(r)))
	var records []gffRecord
	for sc.Next() {
		g, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}
		if seqName != "" && g.SeqName != seqName {
			continue
		}
		rec := gffRecord{
			id:      attribute(g, "ID"),
			name:    attribute(g, "Name"),
			typ:     g.Feature,
			seqName: g.SeqName,
			strand:  strand(g.FeatStrand),
			// biogo reports zero-based half-open coordinates.
			extent: feature.Extent{Start: g.FeatStart + 1, End: g.FeatEnd},
		}
		if rec.id == "" {
			rec.id = fmt.Sprintf("%s-%d", rec.typ, len(records)+1)
		}
		if rec.name == "" {
			rec.name = rec.id
		}
		if parent := attribute(g, "Parent"); parent != "" {
			rec.parents = strings.Split(parent, ",")
		}
		records = append(records, rec)
	}
	if err := sc.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read gff")
	}
	return records, nil
}

// attribute returns the unquoted value of tag.
func attribute(g *gff.Feature, tag string) string {
	return strings.Trim(g.FeatAttributes.Get(tag), `"`)
}

func strand(s seq.Strand) string {
	switch s {
	case seq.Plus:
		return "+"
	case seq.Minus:
		return "-"
	default:
		return "."
	}
}

// directiveFilter drops ## directive lines, which the biogo reader only
// understands for GFF2, stops at an embedded FASTA section and rewrites
// GFF3 attribute columns into the GFF2 notation the reader parses.
type directiveFilter struct {
	sc   *bufio.Scanner
	buf  []byte
	done bool
}

func newDirectiveFilter(r io.Reader) *directiveFilter {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &directiveFilter{sc: sc}
}

func (d *directiveFilter) Read(p []byte) (int, error) {
	for len(d.buf) == 0 {
		if d.done || !d.sc.Scan() {
			if err := d.sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		line := d.sc.Bytes()
		if bytes.HasPrefix(line, fastaDirective) {
			d.done = true
			continue
		}
		if bytes.HasPrefix(line, []byte("##")) {
			continue
		}
		d.buf = append(append(d.buf[:0], gff2Line(line)...), '\n')
	}
	n := copy(p, d.buf)
	d.buf = d.buf[n:]
	return n, nil
}

// gff2Line rewrites column 9 of a GFF3 record from "k=v;k2=v2" to
// `k "v"; k2 "v2"`. Comments and lines already in GFF2 or GTF notation
// pass through unchanged.
func gff2Line(line []byte) []byte {
	if len(line) == 0 || line[0] == '#' {
		return line
	}
	cols := bytes.Split(line, []byte("\t"))
	if len(cols) < 9 {
		return line
	}
	attrs := cols[8]
	if !bytes.ContainsRune(attrs, '=') || bytes.ContainsRune(attrs, '"') {
		return line
	}
	cols[8] = []byte(gff2Attributes(string(attrs)))
	return bytes.Join(cols, []byte("\t"))
}

func gff2Attributes(attrs string) string {
	var pairs []string
	for _, pair := range strings.Split(attrs, ";") {
		tag, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || tag == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf(`%s "%s"`, tag, unescapeValue(value)))
	}
	return strings.Join(pairs, "; ")
}

// unescapeValue decodes GFF3 percent-escapes. Values whose decoded form
// would contain a separator or a quote keep their escapes.
func unescapeValue(v string) string {
	u, err := url.PathUnescape(v)
	if err != nil || strings.ContainsAny(u, ";\"\t\n") {
		return v
	}
	return u
}
