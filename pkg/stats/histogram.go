package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minTracked = 1                       // 1ns
	maxTracked = int64(60 * time.Second) // anything slower is clamped
	sigFigs    = 3                       // 0.1% value precision
)

// Histogram is a mergeable latency histogram. Each worker records into its
// own Histogram and the results are merged once at the end; a single
// Histogram is not safe for concurrent use.
type Histogram struct {
	h       *hdrhistogram.Histogram
	clamped int64
}

func NewHistogram() *Histogram {
	return &Histogram{h: hdrhistogram.New(minTracked, maxTracked, sigFigs)}
}

// Record records one latency. Values outside the tracked range are clamped
// to it.
func (h *Histogram) Record(d time.Duration) {
	v := int64(d)
	if v < minTracked {
		v = minTracked
	}
	if v > maxTracked {
		v = maxTracked
		h.clamped++
	}
	// Cannot fail: v is within the range the histogram was built for.
	_ = h.h.RecordValue(v)
}

func (h *Histogram) Merge(other *Histogram) {
	if other == nil || other.h.TotalCount() == 0 {
		return
	}
	h.h.Merge(other.h)
	h.clamped += other.clamped
}

// ValueAtQuantile returns the latency at quantile q in [0, 1].
func (h *Histogram) ValueAtQuantile(q float64) time.Duration {
	if h.h.TotalCount() == 0 {
		return 0
	}
	return time.Duration(h.h.ValueAtQuantile(q * 100))
}

func (h *Histogram) Mean() time.Duration {
	if h.h.TotalCount() == 0 {
		return 0
	}
	return time.Duration(h.h.Mean())
}

func (h *Histogram) Max() time.Duration {
	return time.Duration(h.h.Max())
}

func (h *Histogram) Count() int64 {
	return h.h.TotalCount()
}

// Clamped reports how many recordings exceeded the tracked range.
func (h *Histogram) Clamped() int64 {
	return h.clamped
}
