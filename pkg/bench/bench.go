// Package bench measures how fast a compiled expression evaluates.
package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/metrics"
	"github.com/runningwild/grapher/pkg/stats"
)

// Params defines one benchmark run.
type Params struct {
	Evaluations int // Total evaluations across all workers
	Workers     int // Concurrent goroutines sharing the expression
	Samples     int // Distinct x positions cycled through; 1000 when zero
}

// Result contains the measurements of a run.
type Result struct {
	Evaluations int64
	Undefined   int64 // Evaluations with no usable value
	Duration    time.Duration
	EvalsPerSec float64
	P50         time.Duration
	P99         time.Duration
	Mean        time.Duration
}

type workerResult struct {
	count     int64
	undefined int64
	hist      *stats.Histogram
}

// Run evaluates f across the window Evaluations times, split between
// Workers goroutines. Each worker records into its own histogram; they are
// merged once all workers finish. If ctx is cancelled the partial result is
// returned along with ctx.Err().
func Run(ctx context.Context, f analyze.Evaluator, w analyze.Window, p Params) (*Result, error) {
	if p.Evaluations <= 0 {
		return nil, fmt.Errorf("invalid evaluation count: %d", p.Evaluations)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if p.Workers <= 0 {
		p.Workers = 1
	}
	if p.Samples <= 0 {
		p.Samples = 1000
	}

	var wg sync.WaitGroup
	results := make(chan workerResult, p.Workers)
	start := time.Now()

	per := p.Evaluations / p.Workers
	extra := p.Evaluations % p.Workers
	for i := 0; i < p.Workers; i++ {
		n := per
		if i < extra {
			n++
		}
		wg.Add(1)
		go func(id, n int) {
			defer wg.Done()
			results <- runWorker(ctx, f, w, p.Samples, id, n)
		}(i, n)
	}

	wg.Wait()
	close(results)

	res := aggregate(results, time.Since(start))
	metrics.AddEvaluations(int(res.Evaluations))
	return res, ctx.Err()
}

func runWorker(ctx context.Context, f analyze.Evaluator, w analyze.Window, samples, id, n int) workerResult {
	res := workerResult{hist: stats.NewHistogram()}
	step := w.Width() / float64(samples)
	// Offset each worker so they do not all hammer the same x values.
	i := id * samples / 7
	for done := 0; done < n; done++ {
		if done%256 == 0 && ctx.Err() != nil {
			break
		}
		x := w.XMin + float64(i%samples)*step
		t0 := time.Now()
		_, ok := f.At(x)
		res.hist.Record(time.Since(t0))
		res.count++
		if !ok {
			res.undefined++
		}
		i++
	}
	return res
}

func aggregate(results chan workerResult, duration time.Duration) *Result {
	total := stats.NewHistogram()
	res := &Result{Duration: duration}
	for r := range results {
		res.Evaluations += r.count
		res.Undefined += r.undefined
		total.Merge(r.hist)
	}
	if res.Evaluations == 0 {
		return res
	}
	res.EvalsPerSec = float64(res.Evaluations) / duration.Seconds()
	res.P50 = total.ValueAtQuantile(0.50)
	res.P99 = total.ValueAtQuantile(0.99)
	res.Mean = total.Mean()
	return res
}
