package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Point represents a single sample of a curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Window is the visible coordinate rectangle. Sampling density and every
// detection threshold scale with it.
type Window struct {
	XMin float64 `json:"x_min" yaml:"x_min"`
	XMax float64 `json:"x_max" yaml:"x_max"`
	YMin float64 `json:"y_min" yaml:"y_min"`
	YMax float64 `json:"y_max" yaml:"y_max"`
}

var ErrInvalidWindow = errors.New("invalid window")

// DefaultWindow is the initial ±10 view.
func DefaultWindow() Window {
	return Window{XMin: -10, XMax: 10, YMin: -10, YMax: 10}
}

func (w Window) Width() float64  { return w.XMax - w.XMin }
func (w Window) Height() float64 { return w.YMax - w.YMin }

// Validate checks that both ranges are finite and non-empty.
func (w Window) Validate() error {
	for _, v := range []float64{w.XMin, w.XMax, w.YMin, w.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite", ErrInvalidWindow)
		}
	}
	if w.XMin >= w.XMax {
		return fmt.Errorf("%w: x_min (%g) must be less than x_max (%g)", ErrInvalidWindow, w.XMin, w.XMax)
	}
	if w.YMin >= w.YMax {
		return fmt.Errorf("%w: y_min (%g) must be less than y_max (%g)", ErrInvalidWindow, w.YMin, w.YMax)
	}
	return nil
}

// Evaluator is anything that can be sampled. ok is false wherever the
// function has no usable value.
type Evaluator interface {
	At(x float64) (y float64, ok bool)
}

// EvaluatorFunc adapts a plain function. NaN and ±Inf results count as
// undefined.
type EvaluatorFunc func(x float64) float64

func (f EvaluatorFunc) At(x float64) (float64, bool) {
	y := f(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

// FeatureType tags a detected feature.
type FeatureType int

const (
	VerticalAsymptote FeatureType = iota
	HorizontalAsymptote
	Hole
)

func (t FeatureType) String() string {
	switch t {
	case VerticalAsymptote:
		return "vertical"
	case HorizontalAsymptote:
		return "horizontal"
	case Hole:
		return "hole"
	}
	return fmt.Sprintf("FeatureType(%d)", int(t))
}

// Feature is a vertical asymptote (X), a horizontal asymptote (Y) or a hole
// (X, Y). Fields that do not apply to the type are zero.
type Feature struct {
	Type FeatureType
	X    float64
	Y    float64
}

func Vertical(x float64) Feature   { return Feature{Type: VerticalAsymptote, X: x} }
func Horizontal(y float64) Feature { return Feature{Type: HorizontalAsymptote, Y: y} }
func HoleAt(x, y float64) Feature  { return Feature{Type: Hole, X: x, Y: y} }

func (f Feature) String() string {
	switch f.Type {
	case VerticalAsymptote:
		return fmt.Sprintf("x = %.3f", f.X)
	case HorizontalAsymptote:
		return fmt.Sprintf("y = %.3f", f.Y)
	}
	return fmt.Sprintf("(%.3f, %.3f)", f.X, f.Y)
}

type featureJSON struct {
	Type string   `json:"type"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

// MarshalJSON emits only the coordinates that apply to the feature type.
func (f Feature) MarshalJSON() ([]byte, error) {
	out := featureJSON{Type: f.Type.String()}
	if f.Type != HorizontalAsymptote {
		out.X = &f.X
	}
	if f.Type != VerticalAsymptote {
		out.Y = &f.Y
	}
	return json.Marshal(out)
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	var in featureJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case "vertical":
		f.Type = VerticalAsymptote
	case "horizontal":
		f.Type = HorizontalAsymptote
	case "hole":
		f.Type = Hole
	default:
		return fmt.Errorf("unknown feature type %q", in.Type)
	}
	f.X, f.Y = 0, 0
	if in.X != nil {
		f.X = *in.X
	}
	if in.Y != nil {
		f.Y = *in.Y
	}
	return nil
}

// Features is the result of one detection pass.
type Features struct {
	Asymptotes []Feature `json:"asymptotes"`
	Holes      []Feature `json:"holes"`
}

// Count returns the number of features of type t.
func (fs Features) Count(t FeatureType) int {
	n := 0
	for _, f := range fs.Asymptotes {
		if f.Type == t {
			n++
		}
	}
	if t == Hole {
		n += len(fs.Holes)
	}
	return n
}

// Of returns the asymptotes of type t, or the holes when t is Hole.
func (fs Features) Of(t FeatureType) []Feature {
	if t == Hole {
		return fs.Holes
	}
	var out []Feature
	for _, f := range fs.Asymptotes {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

func (fs Features) Empty() bool {
	return len(fs.Asymptotes) == 0 && len(fs.Holes) == 0
}
