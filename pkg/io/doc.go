// Package io reads feature tracks from GFF and JSON files and writes them
// back as JSON.
//
// # GFF
//
// [ReadGFF] parses GFF records with the biogo feature scanner. Coordinates
// are converted to the inclusive 1-based extents used by the layout
// engine. A record carrying a Parent attribute and no children of its own
// becomes a [feature.Part] of each listed parent; every other record
// becomes a [feature.Feature]. Records whose parents are missing from the
// file are kept as simple features.
//
// Both GFF2 ("tag value") and GFF3 ("tag=value") attribute styles are
// understood. Everything after a ##FASTA directive is ignored.
//
// # JSON
//
// The JSON track format is:
//
//	{
//	  "name": "transcripts",
//	  "base_width": 8,
//	  "spacing": 2,
//	  "x_origin": 0,
//	  "features": [
//	    {"id": "t1", "start": 100, "end": 900, "width": 8,
//	     "parts": [{"start": 100, "end": 250, "kind": "exon"},
//	               {"start": 700, "end": 900, "kind": "exon"}]},
//	    {"id": "t2", "name": "BRCA2", "start": 400, "end": 600}
//	  ]
//	}
//
// Features without a width take [ImportOptions.DefaultWidth]. For compound
// features start and end may be omitted; they are recomputed from the
// parts.
//
// [ImportFile] picks the format from the file extension: .gff, .gff3 and
// .gtf are read as GFF, anything else as JSON.
package io
