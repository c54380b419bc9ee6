package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Point is a clip-polygon vertex in percent coordinates of the indicator's bounding
// square.
type Point struct {
	X float64
	Y float64
}

// Corner-pinning thresholds: the progress values at which the sweep passes each
// corner of the bounding square, starting at 12 o'clock and going clockwise.
var thresholds = [4]struct {
	progress float64
	corner   Point
}{
	{0.125, Point{100, 0}},
	{0.375, Point{100, 100}},
	{0.625, Point{0, 100}},
	{0.875, Point{0, 0}},
}

var (
	center = Point{50, 50}
	start  = Point{50, 0}
)

// Clip maps progress in [0,1] to the ordered vertices of a pie-slice polygon that
// starts at 12 o'clock and sweeps clockwise. Corners are pinned once the sweep
// passes their threshold; the terminal vertex sits on the current edge at the
// tangent of the angular offset from the quadrant start. The polygon approximates a
// circular sweep over a circle inscribed in the square, which is exact at the
// corners and close enough in between for a clip region.
func Clip(progress float64) []Point {
	progress = clamp(progress)
	if progress == 0 {
		// Zero-area slice: everything after the start vertex collapses to center.
		return []Point{center, start, center}
	}
	pts := make([]Point, 0, 7)
	pts = append(pts, center, start)
	for _, t := range thresholds {
		if progress > t.progress {
			pts = append(pts, t.corner)
		}
	}
	return append(pts, terminal(progress))
}

// CSS renders the slice as a clip-path polygon() value.
func CSS(progress float64) string {
	pts := Clip(progress)
	var b strings.Builder
	b.WriteString("polygon(")
	for i, pt := range pts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatPercent(pt.X))
		b.WriteByte(' ')
		b.WriteString(formatPercent(pt.Y))
	}
	b.WriteByte(')')
	return b.String()
}

// terminal computes the sweep's end point on the square's edge. Within each edge
// segment the coordinate follows the tangent of the angle measured from that edge's
// midpoint, which makes the value meet the corner exactly at the thresholds.
func terminal(progress float64) Point {
	theta := progress * 2 * math.Pi // clockwise from 12 o'clock
	switch {
	case progress < 0.125:
		return Point{50 + 50*math.Tan(theta), 0}
	case progress < 0.375:
		return Point{100, 50 + 50*math.Tan(theta-math.Pi/2)}
	case progress < 0.625:
		return Point{50 - 50*math.Tan(theta-math.Pi), 100}
	case progress < 0.875:
		return Point{0, 50 - 50*math.Tan(theta-3*math.Pi/2)}
	default:
		return Point{50 + 50*math.Tan(theta-2*math.Pi), 0}
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
