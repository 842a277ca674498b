// Package agent serves expression analysis over HTTP.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/expr"
	"github.com/runningwild/grapher/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

// Options configures a Server. Zero values pick the defaults noted per field.
type Options struct {
	ServiceName string            // Span service name; "grapher-agent"
	Detector    *analyze.Detector // Default thresholds when nil
	Logger      *slog.Logger      // slog.Default() when nil
	Rate        float64           // Requests per second across all clients; 0 disables limiting
	Burst       int               // Limiter burst; defaults to max(1, Rate)
	MaxPoints   int               // Cap on xs in /v1/evaluate and samples in /v1/sample; 100000
}

type Server struct {
	router   *gin.Engine
	detector *analyze.Detector
	log      *slog.Logger
	max      int
}

func NewServer(opts Options) *Server {
	if opts.ServiceName == "" {
		opts.ServiceName = "grapher-agent"
	}
	if opts.Detector == nil {
		opts.Detector = analyze.DefaultDetector()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = 100000
	}

	s := &Server{
		router:   gin.New(),
		detector: opts.Detector,
		log:      opts.Logger,
		max:      opts.MaxPoints,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware(opts.ServiceName))
	s.router.Use(requestID())
	s.router.Use(s.accessLog())
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = max(1, int(opts.Rate))
		}
		s.router.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.Rate), burst)))
	}

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	v1 := s.router.Group("/v1")
	v1.POST("/detect", s.handleDetect)
	v1.POST("/evaluate", s.handleEvaluate)
	v1.POST("/sample", s.handleSample)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on port until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("agent listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleDetect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	w := req.window()
	if err := w.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	e, ok := s.compile(c, req.Expression)
	if !ok {
		return
	}

	start := time.Now()
	fs, err := s.detector.Detect(c.Request.Context(), e, w)
	if err != nil {
		// Only a cancelled request gets here.
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	metrics.ObserveDetect(time.Since(start), fs)

	resp := DetectResponse{
		Expression: req.Expression,
		Normalized: e.Source(),
		Asymptotes: fs.Asymptotes,
		Holes:      fs.Holes,
	}
	if resp.Asymptotes == nil {
		resp.Asymptotes = []analyze.Feature{}
	}
	if resp.Holes == nil {
		resp.Holes = []analyze.Feature{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Xs) > s.max {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("too many points: %d > %d", len(req.Xs), s.max)})
		return
	}
	e, ok := s.compile(c, req.Expression)
	if !ok {
		return
	}

	values := make([]*float64, len(req.Xs))
	for i, x := range req.Xs {
		if y, ok := e.At(x); ok {
			values[i] = &y
		}
	}
	metrics.AddEvaluations(len(req.Xs))
	c.JSON(http.StatusOK, EvaluateResponse{Values: values})
}

func (s *Server) handleSample(c *gin.Context) {
	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	w := req.window()
	if err := w.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	n := req.Samples
	if n <= 0 {
		n = 1000
	}
	if n > s.max {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("too many samples: %d > %d", n, s.max)})
		return
	}
	e, ok := s.compile(c, req.Expression)
	if !ok {
		return
	}

	segs := analyze.Sample(e, w, n)
	if segs == nil {
		segs = []analyze.Segment{}
	}
	metrics.AddEvaluations(n + 1)
	c.JSON(http.StatusOK, SampleResponse{Segments: segs})
}

// compile parses src, writing a 422 response on failure.
func (s *Server) compile(c *gin.Context, src string) (*expr.Expr, bool) {
	e, err := expr.Parse(src)
	metrics.ObserveCompile(err)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: expr.KindName(err)})
		return nil, false
	}
	return e, true
}

// requestID tags every request and response with an ID, keeping one the
// client supplied.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func rateLimit(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.ObserveRequest(route, strconv.Itoa(status))
		s.log.Debug("request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}
