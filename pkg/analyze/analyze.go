// Package analyze finds the features of a plotted curve that a reader cares
// about: vertical asymptotes, horizontal asymptotes and removable
// discontinuities (holes). Detection is purely numeric and works on anything
// that can be sampled through Evaluator.
package analyze

import (
	"context"
	"math"
)

// Detector holds the tuning for a detection pass. Every threshold is relative
// to the window so results do not depend on zoom level.
type Detector struct {
	Samples         int     `yaml:"samples" validate:"gte=2"`          // Sample steps across the window (e.g. 1000)
	JumpFactor      float64 `yaml:"jump_factor" validate:"gt=0"`       // |y3-y1| beyond this many window heights is a vertical asymptote
	HoleFactor      float64 `yaml:"hole_factor" validate:"gt=0"`       // |y3-y1| under this many heights may be a hole
	HoleLimitFactor float64 `yaml:"hole_limit_factor" validate:"gt=0"` // Holes further than this many heights from zero are dropped
	BlowupFactor    float64 `yaml:"blowup_factor" validate:"gt=0"`     // |y| beyond this many heights counts as a pole
	FarOffset       float64 `yaml:"far_offset" validate:"gt=0"`        // Distance past each x bound probed for horizontal asymptotes
	FarLimit        float64 `yaml:"far_limit" validate:"gt=0"`         // Far values at or beyond this are not asymptotes
	FarSeparation   float64 `yaml:"far_separation" validate:"gte=0"`   // Right tail must differ from the left by more than this
	VerticalDedup   float64 `yaml:"vertical_dedup" validate:"gte=0"`   // Fraction of the window width within which verticals merge
	HorizontalDedup float64 `yaml:"horizontal_dedup" validate:"gte=0"` // Absolute y distance within which horizontals merge
}

// DefaultDetector returns a Detector with the standard thresholds.
func DefaultDetector() *Detector {
	return &Detector{
		Samples:         1000,
		JumpFactor:      1.5,
		HoleFactor:      0.5,
		HoleLimitFactor: 5,
		BlowupFactor:    100,
		FarOffset:       100,
		FarLimit:        1000,
		FarSeparation:   0.1,
		VerticalDedup:   0.02,
		HorizontalDedup: 0.5,
	}
}

// Detect runs the default detector.
func Detect(ctx context.Context, f Evaluator, w Window) (Features, error) {
	return DefaultDetector().Detect(ctx, f, w)
}

// Detect scans f across the window. At each sample x it looks at f(x) and at
// the two midpoints half a step either side:
//
//   - f(x) undefined with both neighbours defined is a vertical asymptote when
//     the neighbours straddle zero or jump by more than JumpFactor heights,
//     and otherwise a hole at their average if they nearly agree.
//   - f(x) defined but huge with a sign flip on either side is a vertical
//     asymptote.
//
// Horizontal asymptotes come from probing FarOffset beyond each x bound.
// The asymptote list is deduplicated before returning; holes are not.
//
// The context is checked between sample steps. When it is done Detect returns
// its error and no features.
func (d *Detector) Detect(ctx context.Context, f Evaluator, w Window) (Features, error) {
	if err := w.Validate(); err != nil {
		return Features{}, err
	}

	samples := d.Samples
	if samples < 1 {
		samples = DefaultDetector().Samples
	}
	step := w.Width() / float64(samples)
	height := w.Height()

	var asymptotes, holes []Feature
	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return Features{}, err
		}

		x := w.XMin + float64(i)*step
		y1, ok1 := f.At(x - step*0.5)
		y2, ok2 := f.At(x)
		y3, ok3 := f.At(x + step*0.5)

		switch {
		case !ok2 && ok1 && ok3:
			jump := math.Abs(y3 - y1)
			if signFlip(y1, y3) || jump > d.JumpFactor*height {
				asymptotes = append(asymptotes, Vertical(x))
				continue
			}
			avg := (y1 + y3) / 2
			if jump < d.HoleFactor*height && math.Abs(avg) < d.HoleLimitFactor*math.Abs(height) {
				holes = append(holes, HoleAt(x, avg))
			}

		case ok1 && ok2 && ok3:
			if math.Abs(y2) > d.BlowupFactor*math.Abs(height) && (signFlip(y1, y2) || signFlip(y2, y3)) {
				asymptotes = append(asymptotes, Vertical(x))
			}
		}
	}

	asymptotes = append(asymptotes, d.horizontal(f, w)...)

	return Features{
		Asymptotes: d.Dedup(asymptotes, w),
		Holes:      holes,
	}, nil
}

// horizontal probes both tails. The right tail is reported only when it is
// distinguishable from the left one (an undefined left tail counts as 0).
func (d *Detector) horizontal(f Evaluator, w Window) []Feature {
	var out []Feature
	left, okLeft := f.At(w.XMin - d.FarOffset)
	if okLeft && math.Abs(left) < d.FarLimit {
		out = append(out, Horizontal(left))
	}

	ref := 0.0
	if okLeft {
		ref = left
	}
	right, okRight := f.At(w.XMax + d.FarOffset)
	if okRight && math.Abs(right) < d.FarLimit && math.Abs(right-ref) > d.FarSeparation {
		out = append(out, Horizontal(right))
	}
	return out
}

// Dedup drops every asymptote that duplicates an earlier kept one of the same
// type. Verticals are duplicates within VerticalDedup of the window width,
// horizontals within HorizontalDedup. The first occurrence wins and order is
// preserved. Holes are passed through untouched.
func (d *Detector) Dedup(features []Feature, w Window) []Feature {
	xTol := d.VerticalDedup * w.Width()
	out := make([]Feature, 0, len(features))
	for _, f := range features {
		dup := false
		for _, k := range out {
			if k.Type != f.Type {
				continue
			}
			switch f.Type {
			case VerticalAsymptote:
				dup = math.Abs(k.X-f.X) < xTol
			case HorizontalAsymptote:
				dup = math.Abs(k.Y-f.Y) < d.HorizontalDedup
			}
			if dup {
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	return out
}

// Dedup runs the default detector's deduplication.
func Dedup(features []Feature, w Window) []Feature {
	return DefaultDetector().Dedup(features, w)
}

func signFlip(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
