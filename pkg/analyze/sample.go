package analyze

import "math"

// Segment is a run of consecutive defined samples; a plot draws each one as
// a single connected line.
type Segment []Point

// Sample evaluates f at n+1 evenly spaced points from XMin to XMax inclusive.
// Undefined samples are dropped and break the curve into segments.
func Sample(f Evaluator, w Window, n int) []Segment {
	if n < 1 {
		n = 1
	}
	step := w.Width() / float64(n)

	var segs []Segment
	var cur Segment
	for i := 0; i <= n; i++ {
		x := w.XMin + float64(i)*step
		y, ok := f.At(x)
		if !ok {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, Point{X: x, Y: y})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// Downsample averages points into fixed-width x buckets. Points must be
// sorted by X. Each output point sits at the centre of its bucket.
func Downsample(points []Point, width float64) []Point {
	if width <= 0 || len(points) == 0 {
		return points
	}

	var result []Point
	var currentBin int64
	var sumY float64
	var count int

	flush := func() {
		if count > 0 {
			result = append(result, Point{
				X: (float64(currentBin) + 0.5) * width,
				Y: sumY / float64(count),
			})
		}
	}

	for _, p := range points {
		bin := int64(math.Floor(p.X / width))
		if count == 0 || bin != currentBin {
			flush()
			currentBin = bin
			sumY = 0
			count = 0
		}
		sumY += p.Y
		count++
	}
	flush()

	return result
}
