package feature

import "testing"

func indexFixture() []*Feature {
	return []*Feature{
		{ID: "a", Extent: Extent{10, 20}},
		{ID: "b", Extent: Extent{15, 25}},
		{ID: "c", Extent: Extent{30, 40}},
		{ID: "d", Extent: Extent{20, 20}},
		{ID: "hidden", Extent: Extent{10, 40}, Hidden: true},
	}
}

func ids(fs []*Feature) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

func TestIndexOverlapping(t *testing.T) {
	idx, err := NewIndex(indexFixture())
	if err != nil {
		t.Fatalf("NewIndex() error: %v", err)
	}
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}

	tests := []struct {
		name string
		q    Extent
		want []string
	}{
		{"touching end", Extent{20, 20}, []string{"a", "b", "d"}},
		{"gap", Extent{26, 29}, nil},
		{"start boundary", Extent{40, 50}, []string{"c"}},
		{"everything", Extent{0, 100}, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(idx.Overlapping(tt.q))
			if len(got) != len(tt.want) {
				t.Fatalf("Overlapping(%v) = %v, want %v", tt.q, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Overlapping(%v) = %v, want %v", tt.q, got, tt.want)
					break
				}
			}
		})
	}
}

func TestIndexAt(t *testing.T) {
	idx, err := NewIndex(indexFixture())
	if err != nil {
		t.Fatalf("NewIndex() error: %v", err)
	}
	if got := ids(idx.At(30)); len(got) != 1 || got[0] != "c" {
		t.Errorf("At(30) = %v, want [c]", got)
	}
}

func TestIndexRejectsMalformed(t *testing.T) {
	_, err := NewIndex([]*Feature{{ID: "bad", Extent: Extent{10, 5}}})
	if err == nil {
		t.Error("NewIndex() accepted a malformed extent")
	}
}

func TestMaxDepth(t *testing.T) {
	tests := []struct {
		name string
		fs   []*Feature
		want int
	}{
		{"empty", nil, 0},
		{"fixture", indexFixture(), 3},
		{"touching pair", []*Feature{{Extent: Extent{10, 20}}, {Extent: Extent{20, 30}}}, 2},
		{"adjacent pair", []*Feature{{Extent: Extent{10, 20}}, {Extent: Extent{21, 30}}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxDepth(tt.fs); got != tt.want {
				t.Errorf("MaxDepth() = %d, want %d", got, tt.want)
			}
		})
	}
}
