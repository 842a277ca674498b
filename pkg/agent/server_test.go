package agent

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(opts Options) *Server {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(opts)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(Options{}).Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestDetect(t *testing.T) {
	h := newTestServer(Options{}).Handler()

	tests := []struct {
		name     string
		req      DetectRequest
		code     int
		kind     string
		vertical int
		holes    int
	}{
		{name: "Reciprocal", req: DetectRequest{Expression: "1/x"}, code: http.StatusOK, vertical: 1},
		{name: "Hole", req: DetectRequest{Expression: "(x^2-1)/(x-1)"}, code: http.StatusOK, holes: 1},
		{
			name:     "Custom Window",
			req:      DetectRequest{Expression: "1/(x-30)", Window: &analyze.Window{XMin: 20, XMax: 40, YMin: -10, YMax: 10}},
			code:     http.StatusOK,
			vertical: 1,
		},
		{name: "Unknown Function", req: DetectRequest{Expression: "foo(x)"}, code: http.StatusUnprocessableEntity, kind: "unknown_function"},
		{name: "Empty", req: DetectRequest{Expression: ""}, code: http.StatusUnprocessableEntity, kind: "unexpected_end_of_input"},
		{
			name: "Bad Window",
			req:  DetectRequest{Expression: "x", Window: &analyze.Window{XMin: 1, XMax: 0, YMin: 0, YMax: 1}},
			code: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/detect", tt.req)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())

			if tt.code != http.StatusOK {
				var er ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
				assert.NotEmpty(t, er.Error)
				assert.Equal(t, tt.kind, er.Kind)
				return
			}

			var resp DetectResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.req.Expression, resp.Expression)
			fs := resp.Features()
			assert.Equal(t, tt.vertical, fs.Count(analyze.VerticalAsymptote))
			assert.Equal(t, tt.holes, fs.Count(analyze.Hole))
		})
	}
}

func TestDetect_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluate(t *testing.T) {
	h := newTestServer(Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/v1/evaluate", EvaluateRequest{Expression: "1/x", Xs: []float64{2, 0, -4}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"values":[0.5,null,-0.25]}`, rec.Body.String())
}

func TestEvaluate_TooMany(t *testing.T) {
	h := newTestServer(Options{MaxPoints: 2}).Handler()
	rec := do(t, h, http.MethodPost, "/v1/evaluate", EvaluateRequest{Expression: "x", Xs: []float64{1, 2, 3}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSample(t *testing.T) {
	h := newTestServer(Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/v1/sample", SampleRequest{Expression: "1/x", Samples: 4})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SampleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Segments, 2)
	assert.Equal(t, analyze.Point{X: -10, Y: -0.1}, resp.Segments[0][0])
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(Options{Rate: 1, Burst: 2}).Handler()

	codes := make([]int, 4)
	for i := range codes {
		codes[i] = do(t, h, http.MethodGet, "/health", nil).Code
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestMetrics(t *testing.T) {
	h := newTestServer(Options{}).Handler()
	do(t, h, http.MethodPost, "/v1/detect", DetectRequest{Expression: "1/x"})

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grapher_detect_duration_seconds")
}
