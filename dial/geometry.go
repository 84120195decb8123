/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package dial maps pointer input onto the semicircular guessing dial and
// back, lays out the scoring bands around a target, and owns the drag state
// and outbound rate limiting of the needle.
package dial

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinAngle = 0
	MaxAngle = 180
)

// Geometry describes where the dial sits in its drawing surface. Angles are
// measured from the left end of the baseline, counter-clockwise, so 0 is the
// left adjective, 90 is straight up and 180 is the right adjective.
type Geometry struct {
	CX float64
	CY float64
	R  float64
}

// Default matches the 260x150 surface the screens draw into.
var Default = Geometry{CX: 130, CY: 120, R: 100}

// Width and Height of the drawing surface, including room for the labels.
func (g Geometry) Width() float64  { return g.CX * 2 }
func (g Geometry) Height() float64 { return g.CY + 30 }

// Diameter is the full horizontal span the reveal clip animates across.
func (g Geometry) Diameter() float64 { return g.R * 2 }

// ClampAngle forces any angle into the dial's valid range.
func ClampAngle(a int) int {
	if a < MinAngle {
		return MinAngle
	}
	if a > MaxAngle {
		return MaxAngle
	}
	return a
}

// PointToAngle converts a point in surface coordinates to a whole-degree
// dial angle. Points below the baseline stick to the nearer end instead of
// wrapping around.
func (g Geometry) PointToAngle(x, y float64) int {
	dx := x - g.CX
	dy := g.CY - y

	if dx == 0 && dy == 0 {
		return 90
	}

	if dy < 0 {
		if dx > 0 {
			return MaxAngle
		}
		return MinAngle
	}

	a := math.Atan2(dy, -dx) * 180 / math.Pi

	return ClampAngle(int(math.Round(a)))
}

// AngleToPoint is the inverse of PointToAngle at the given radius.
func (g Geometry) AngleToPoint(angle, radius float64) (x, y float64) {
	rad := angle * math.Pi / 180

	return g.CX + radius*math.Cos(math.Pi-rad), g.CY - radius*math.Sin(rad)
}

// ArcPath returns an SVG path for the annular sector between start and end
// degrees, bounded by the inner and outer radii.
func (g Geometry) ArcPath(start, end, inner, outer float64) string {
	s1x, s1y := g.AngleToPoint(start, outer)
	e1x, e1y := g.AngleToPoint(end, outer)
	s2x, s2y := g.AngleToPoint(end, inner)
	e2x, e2y := g.AngleToPoint(start, inner)

	large := "0"
	if end-start > 180 {
		large = "1"
	}

	var b strings.Builder

	b.WriteString("M " + num(s1x) + " " + num(s1y))
	b.WriteString(" A " + num(outer) + " " + num(outer) + " 0 " + large + " 0 " + num(e1x) + " " + num(e1y))
	b.WriteString(" L " + num(s2x) + " " + num(s2y))
	b.WriteString(" A " + num(inner) + " " + num(inner) + " 0 " + large + " 1 " + num(e2x) + " " + num(e2y))
	b.WriteString(" Z")

	return b.String()
}

// BackgroundPath is the filled half disc behind everything else.
func (g Geometry) BackgroundPath() string {
	return "M " + num(g.CX-g.R) + " " + num(g.CY) +
		" A " + num(g.R) + " " + num(g.R) + " 0 0 1 " + num(g.CX+g.R) + " " + num(g.CY)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
