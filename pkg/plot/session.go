// Package plot manages a set of plotted functions over a shared view window
// and keeps their detected features current.
package plot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/config"
	"github.com/runningwild/grapher/pkg/expr"
	"github.com/runningwild/grapher/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Palette is cycled through by function ID when no color is given.
var Palette = []string{
	"#00adb5",
	"#ff6b6b",
	"#4ecdc4",
	"#ffe66d",
	"#a8dadc",
	"#f1faee",
	"#ff006e",
	"#8338ec",
}

var ErrNotFound = errors.New("function not found")

var tracer = otel.Tracer("github.com/runningwild/grapher/pkg/plot")

// Definition is one entry in the function list. Expr is nil when the
// expression is empty or failed to compile; in the latter case Err holds the
// message.
type Definition struct {
	ID         int
	Expression string
	Color      string
	Visible    bool
	Expr       *expr.Expr
	Features   analyze.Features
	Err        string
}

// Session is an ordered function list plus the window they are plotted in.
// All methods are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	window   analyze.Window
	detector *analyze.Detector
	defs     []*Definition
	nextID   int
	log      *slog.Logger
}

// NewSession returns an empty session. A nil detector uses the defaults and
// a nil logger uses slog.Default().
func NewSession(w analyze.Window, d *analyze.Detector, logger *slog.Logger) *Session {
	if d == nil {
		d = analyze.DefaultDetector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{window: w, detector: d, log: logger}
}

// FromConfig builds a session holding every function in cfg.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	d := cfg.Detector
	s := NewSession(cfg.Window, &d, logger)
	for _, f := range cfg.Functions {
		def, err := s.Add(ctx, f.Expression, f.Color)
		if err != nil {
			return nil, err
		}
		if f.Hidden {
			if err := s.SetVisible(def.ID, false); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Config captures the session so it can be saved and restored.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := &config.Config{Window: s.window, Detector: *s.detector}
	for _, d := range s.defs {
		cfg.Functions = append(cfg.Functions, config.Function{
			Expression: d.Expression,
			Color:      d.Color,
			Hidden:     !d.Visible,
		})
	}
	return cfg
}

func (s *Session) Window() analyze.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Definitions returns a snapshot of the function list in order.
func (s *Session) Definitions() []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Definition, len(s.defs))
	for i, d := range s.defs {
		out[i] = *d
	}
	return out
}

func (s *Session) Get(id int) (Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.find(id)
	if d == nil {
		return Definition{}, false
	}
	return *d, true
}

// Add appends a function. An empty color picks the next palette entry. A
// compile failure is recorded on the definition rather than returned; the
// returned error is only set when detection was interrupted by ctx.
func (s *Session) Add(ctx context.Context, expression, color string) (Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if color == "" {
		color = Palette[id%len(Palette)]
	}
	d := &Definition{ID: id, Color: color, Visible: true}
	if err := s.apply(ctx, d, expression); err != nil {
		return Definition{}, err
	}
	s.defs = append(s.defs, d)
	return *d, nil
}

// Update replaces the expression of function id and re-runs detection.
func (s *Session) Update(ctx context.Context, id int, expression string) (Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.find(id)
	if d == nil {
		return Definition{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err := s.apply(ctx, d, expression); err != nil {
		return *d, err
	}
	return *d, nil
}

func (s *Session) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.defs {
		if d.ID == id {
			s.defs = append(s.defs[:i], s.defs[i+1:]...)
			s.log.Info("function removed", "id", id)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}

func (s *Session) SetVisible(id int, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.find(id)
	if d == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	d.Visible = visible
	return nil
}

func (s *Session) SetColor(id int, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.find(id)
	if d == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	d.Color = color
	return nil
}

// SetWindow moves the view and re-detects every function. On failure the
// previous window and features are kept.
func (s *Session) SetWindow(ctx context.Context, w analyze.Window) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.window
	s.window = w
	if err := s.refresh(ctx); err != nil {
		s.window = prev
		return err
	}
	return nil
}

// ResetView restores the default ±10 window.
func (s *Session) ResetView(ctx context.Context) error {
	return s.SetWindow(ctx, analyze.DefaultWindow())
}

// Refresh re-detects features for every compiled function concurrently.
// Features are only replaced if every detection succeeds.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *Session) refresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "plot.Refresh", trace.WithAttributes(
		attribute.Int("functions", len(s.defs)),
	))
	defer span.End()

	results := make([]analyze.Features, len(s.defs))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range s.defs {
		i, d := i, d
		if d.Expr == nil {
			continue
		}
		g.Go(func() error {
			fs, err := s.detect(gctx, d.Expr)
			if err != nil {
				return fmt.Errorf("function %d: %w", d.ID, err)
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		return err
	}

	for i, d := range s.defs {
		if d.Expr != nil {
			d.Features = results[i]
		}
	}
	s.log.Debug("features refreshed", "functions", len(s.defs), "window", s.window)
	return nil
}

// apply compiles expression into d and detects its features. d is left
// untouched if detection is interrupted.
func (s *Session) apply(ctx context.Context, d *Definition, expression string) error {
	src := strings.TrimSpace(expression)
	if src == "" {
		d.Expression, d.Expr, d.Features, d.Err = expression, nil, analyze.Features{}, ""
		return nil
	}

	e, err := expr.Parse(src)
	metrics.ObserveCompile(err)
	if err != nil {
		s.log.Debug("compile failed", "id", d.ID, "expression", src, "kind", expr.KindName(err), "err", err)
		d.Expression, d.Expr, d.Features, d.Err = expression, nil, analyze.Features{}, err.Error()
		return nil
	}

	ctx, span := tracer.Start(ctx, "plot.Detect", trace.WithAttributes(
		attribute.Int("id", d.ID),
		attribute.String("expression", e.Source()),
	))
	defer span.End()

	fs, err := s.detect(ctx, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detect failed")
		return err
	}

	d.Expression, d.Expr, d.Features, d.Err = expression, e, fs, ""
	s.log.Info("function updated",
		"id", d.ID,
		"expression", e.Source(),
		"vertical", fs.Count(analyze.VerticalAsymptote),
		"horizontal", fs.Count(analyze.HorizontalAsymptote),
		"holes", fs.Count(analyze.Hole),
	)
	return nil
}

func (s *Session) detect(ctx context.Context, e *expr.Expr) (analyze.Features, error) {
	start := time.Now()
	fs, err := s.detector.Detect(ctx, e, s.window)
	if err != nil {
		return analyze.Features{}, err
	}
	metrics.ObserveDetect(time.Since(start), fs)
	return fs, nil
}

func (s *Session) find(id int) *Definition {
	for _, d := range s.defs {
		if d.ID == id {
			return d
		}
	}
	return nil
}
