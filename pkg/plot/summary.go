package plot

import (
	"fmt"
	"strings"

	"github.com/runningwild/grapher/pkg/analyze"
)

const titleLimit = 20

// Group lists the features of one function.
type Group struct {
	ID    int
	Title string
	Color string
	Lines []string
}

// Summary lists the features of every visible, compiled function that has
// any, in function order.
func (s *Session) Summary() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Group
	for _, d := range s.defs {
		if !d.Visible || d.Expr == nil || d.Features.Empty() {
			continue
		}
		out = append(out, Group{
			ID:    d.ID,
			Title: Title(d.Expression),
			Color: d.Color,
			Lines: FeatureLines(d.Features),
		})
	}
	return out
}

// Title is the heading shown for an expression, cut to 20 characters.
func Title(expression string) string {
	r := []rune(expression)
	if len(r) > titleLimit {
		return "f(x) = " + string(r[:titleLimit]) + "..."
	}
	return "f(x) = " + expression
}

// FeatureLines describes each feature on its own line: verticals, then
// horizontals, then holes.
func FeatureLines(fs analyze.Features) []string {
	var lines []string
	for _, f := range fs.Of(analyze.VerticalAsymptote) {
		lines = append(lines, fmt.Sprintf("V.A. at x = %.3f", f.X))
	}
	for _, f := range fs.Of(analyze.HorizontalAsymptote) {
		lines = append(lines, fmt.Sprintf("H.A. at y = %.3f", f.Y))
	}
	for _, f := range fs.Holes {
		lines = append(lines, fmt.Sprintf("Hole at (%.3f, %.3f)", f.X, f.Y))
	}
	return lines
}

// Badges is the short per-function info string, e.g. "2 V.A. · 1 Hole".
func Badges(d Definition) string {
	if d.Err != "" {
		return "Error: " + d.Err
	}
	var parts []string
	if n := d.Features.Count(analyze.VerticalAsymptote); n > 0 {
		parts = append(parts, fmt.Sprintf("%d V.A.", n))
	}
	if n := d.Features.Count(analyze.HorizontalAsymptote); n > 0 {
		parts = append(parts, fmt.Sprintf("%d H.A.", n))
	}
	if n := len(d.Features.Holes); n == 1 {
		parts = append(parts, "1 Hole")
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("%d Holes", n))
	}
	return strings.Join(parts, " · ")
}
