package bump

import (
	"slices"
	"testing"
)

func TestWidthOffsetResolver(t *testing.T) {
	tests := []struct {
		name        string
		spacing     float64
		widths      []float64
		wantOffsets []float64
		wantTotal   float64
	}{
		{"empty", 2, nil, nil, 0},
		{"single", 2, []float64{10}, []float64{0}, 10},
		{"three", 2, []float64{10, 6, 8}, []float64{0, 12, 20}, 28},
		{"no spacing", 0, []float64{5, 5}, []float64{0, 5}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := WidthOffsetResolver{Spacing: tt.spacing, BaseWidth: 10}
			offsets, total := r.Resolve(tt.widths)
			if !slices.Equal(offsets, tt.wantOffsets) {
				t.Errorf("Resolve() offsets = %v, want %v", offsets, tt.wantOffsets)
			}
			if total != tt.wantTotal {
				t.Errorf("Resolve() total = %v, want %v", total, tt.wantTotal)
			}
		})
	}
}

func TestFeatureOffset(t *testing.T) {
	r := WidthOffsetResolver{Spacing: 2, BaseWidth: 10}
	widths := []float64{10, 6}
	offsets, _ := r.Resolve(widths)

	if got := r.FeatureOffset(offsets, widths, 0); got != 0 {
		t.Errorf("FeatureOffset(0) = %v, want 0", got)
	}
	// offset 12, shifted left by (10-6)/2.
	if got := r.FeatureOffset(offsets, widths, 1); got != 10 {
		t.Errorf("FeatureOffset(1) = %v, want 10", got)
	}
}
