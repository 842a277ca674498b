package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/plot"
)

// printer writes human-readable results, colored only when w is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	boldStyle  = lipgloss.NewStyle().Bold(true)
)

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Definitions lists every function with its badges, then the feature
// summary of the visible ones.
func (p *printer) Definitions(s *plot.Session) {
	for _, d := range s.Definitions() {
		title := plot.Title(d.Expression)
		if d.Expression == "" {
			title = "f(x) ="
		}
		line := fmt.Sprintf("[%d] %s", d.ID, p.render(lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color)), title))
		if !d.Visible {
			line += p.render(dimStyle, " (hidden)")
		}
		if b := plot.Badges(d); b != "" {
			style := dimStyle
			if d.Err != "" {
				style = errorStyle
			}
			line += "  " + p.render(style, b)
		}
		fmt.Fprintln(p.w, line)
	}

	groups := s.Summary()
	if len(groups) == 0 {
		return
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.render(boldStyle, ">>> Features <<<"))
	for _, g := range groups {
		fmt.Fprintln(p.w, p.render(lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color)), g.Title))
		for _, l := range g.Lines {
			fmt.Fprintf(p.w, "  %s\n", l)
		}
	}
}

func (p *printer) Features(title string, fs analyze.Features) {
	fmt.Fprintln(p.w, p.render(boldStyle, title))
	lines := plot.FeatureLines(fs)
	if len(lines) == 0 {
		fmt.Fprintln(p.w, p.render(dimStyle, "  no features"))
	}
	for _, l := range lines {
		fmt.Fprintf(p.w, "  %s\n", l)
	}
}

// reportEntry is one function in a JSON report.
type reportEntry struct {
	ID         int               `json:"id"`
	Expression string            `json:"expression"`
	Normalized string            `json:"normalized,omitempty"`
	Error      string            `json:"error,omitempty"`
	Asymptotes []analyze.Feature `json:"asymptotes"`
	Holes      []analyze.Feature `json:"holes"`
}

type report struct {
	Window    analyze.Window `json:"window"`
	Functions []reportEntry  `json:"functions"`
}

func writeReport(path string, s *plot.Session) error {
	r := report{Window: s.Window(), Functions: []reportEntry{}}
	for _, d := range s.Definitions() {
		e := reportEntry{
			ID:         d.ID,
			Expression: d.Expression,
			Error:      d.Err,
			Asymptotes: d.Features.Asymptotes,
			Holes:      d.Features.Holes,
		}
		if d.Expr != nil {
			e.Normalized = d.Expr.Source()
		}
		if e.Asymptotes == nil {
			e.Asymptotes = []analyze.Feature{}
		}
		if e.Holes == nil {
			e.Holes = []analyze.Feature{}
		}
		r.Functions = append(r.Functions, e)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
