package bump_test

import (
	"fmt"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/feature"
)

func ExampleEngine_Run() {
	tr := feature.NewTrack("genes", 10, 2)
	tr.Add(
		&feature.Feature{ID: "a", Extent: feature.Extent{Start: 10, End: 20}, Width: 10},
		&feature.Feature{ID: "b", Extent: feature.Extent{Start: 15, End: 25}, Width: 10},
		&feature.Feature{ID: "c", Extent: feature.Extent{Start: 30, End: 40}, Width: 10},
	)

	res, err := bump.NewEngine().Run(tr, bump.Request{Mode: bump.ModeOverlap})
	if err != nil {
		panic(err)
	}
	for _, f := range tr.Features {
		fmt.Printf("%s column=%d offset=%.0f\n", f.ID, f.Layout.Column, f.Layout.Offset)
	}
	fmt.Printf("columns=%d width=%.0f\n", res.Columns, res.BumpedWidth)
	// Output:
	// a column=0 offset=0
	// b column=1 offset=12
	// c column=0 offset=0
	// columns=2 width=22
}

func ExampleParseMode() {
	m, _ := bump.ParseMode("name-no-interleave")
	fmt.Println(m)
	// Output: all
}
