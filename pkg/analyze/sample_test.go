package analyze

import (
	"testing"

	"github.com/runningwild/grapher/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		n        int
		segments []int // points per segment
	}{
		{"Continuous", "x^2", 10, []int{11}},
		{"Break At Pole", "1/x", 4, []int{2, 2}},
		{"Half Domain", "sqrt(x)", 4, []int{3}},
		{"Nowhere Defined", "sqrt(-1)", 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Sample(expr.MustParse(tt.src), DefaultWindow(), tt.n)
			require.Len(t, segs, len(tt.segments))
			for i, want := range tt.segments {
				assert.Len(t, segs[i], want)
			}
		})
	}
}

func TestSample_Endpoints(t *testing.T) {
	segs := Sample(expr.MustParse("x"), Window{XMin: -2, XMax: 2, YMin: -1, YMax: 1}, 4)
	require.Len(t, segs, 1)
	assert.Equal(t, Segment{{-2, -2}, {-1, -1}, {0, 0}, {1, 1}, {2, 2}}, segs[0])
}

func TestDownsample(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		width  float64
		want   []Point
	}{
		{
			name:   "Two Buckets",
			points: []Point{{0, 1}, {0.5, 3}, {1, 10}, {1.5, 20}},
			width:  1,
			want:   []Point{{0.5, 2}, {1.5, 15}},
		},
		{
			name:   "Negative X",
			points: []Point{{-1, 4}, {-0.5, 6}, {0, 1}},
			width:  1,
			want:   []Point{{-0.5, 5}, {0.5, 1}},
		},
		{
			name:   "No Width",
			points: []Point{{0, 1}, {1, 2}},
			width:  0,
			want:   []Point{{0, 1}, {1, 2}},
		},
		{
			name:  "Empty",
			width: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Downsample(tt.points, tt.width))
		})
	}
}
