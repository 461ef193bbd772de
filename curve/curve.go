// Package curve provides the zero curve used for discounting: a set of
// tenor-keyed annualized rates with linear interpolation between pillars and
// flat extrapolation beyond them.
package curve

import (
	"fmt"
	"sort"
)

// Point is one curve pillar, sorted by year fraction.
type Point struct {
	Tenor string
	Years float64
	Rate  float64
}

// Curve is an immutable interpolated rate curve.
type Curve struct {
	points []Point
}

// New builds a curve from tenor-label quotes (e.g. {"1M": 0.04, "1Y": 0.055}).
// Pillars are sorted by year fraction; label order is irrelevant.
func New(quotes map[string]float64) (*Curve, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("curve.New: no quotes")
	}

	points := make([]Point, 0, len(quotes))
	for label, rate := range quotes {
		years, err := ParseTenor(label)
		if err != nil {
			return nil, fmt.Errorf("curve.New: %w", err)
		}
		points = append(points, Point{Tenor: label, Years: years, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Years < points[j].Years })

	return &Curve{points: points}, nil
}

// Rate returns the annualized rate at year fraction t. Between pillars the
// rate is linearly interpolated; outside the pillar range it is flat at the
// nearest pillar. A single-point curve is flat everywhere.
func (c *Curve) Rate(t float64) float64 {
	pts := c.points
	if t <= pts[0].Years {
		return pts[0].Rate
	}
	last := pts[len(pts)-1]
	if t >= last.Years {
		return last.Rate
	}

	// First pillar with Years >= t.
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Years >= t })
	p1, p2 := pts[i-1], pts[i]
	return p1.Rate + (p2.Rate-p1.Rate)*(t-p1.Years)/(p2.Years-p1.Years)
}

// Shift returns a new curve with spread added to every pillar rate. The
// receiver is unchanged.
func (c *Curve) Shift(spread float64) *Curve {
	shifted := make([]Point, len(c.points))
	copy(shifted, c.points)
	for i := range shifted {
		shifted[i].Rate += spread
	}
	return &Curve{points: shifted}
}

// Points returns a copy of the sorted pillars.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}
