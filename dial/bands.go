/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package dial

// Half widths of the scoring bands around a target. A distance exactly on an
// edge belongs to the inner band.
const (
	BullseyeHalfWidth = 5
	InnerHalfWidth    = 11
	OuterHalfWidth    = 19
)

// Band is one shaded wedge of the scoring overlay.
type Band struct {
	Start  int
	End    int
	Points int
}

// Mid is where the band's point label is drawn.
func (b Band) Mid() float64 {
	return float64(b.Start+b.End) / 2
}

// Points reports what a needle at needle would score against target.
func Points(target, needle int) int {
	d := ClampAngle(needle) - ClampAngle(target)
	if d < 0 {
		d = -d
	}

	switch {
	case d <= BullseyeHalfWidth:
		return 4
	case d <= InnerHalfWidth:
		return 3
	case d <= OuterHalfWidth:
		return 2
	default:
		return 0
	}
}

// Bands lays out the five scoring wedges around target, outermost first so
// the inner ones paint over them. Wedges pushed entirely off the dial are
// dropped.
func Bands(target int) []Band {
	t := ClampAngle(target)

	raw := []Band{
		{t - OuterHalfWidth, t - InnerHalfWidth, 2},
		{t + InnerHalfWidth, t + OuterHalfWidth, 2},
		{t - InnerHalfWidth, t - BullseyeHalfWidth, 3},
		{t + BullseyeHalfWidth, t + InnerHalfWidth, 3},
		{t - BullseyeHalfWidth, t + BullseyeHalfWidth, 4},
	}

	bands := make([]Band, 0, len(raw))
	for _, b := range raw {
		b.Start = ClampAngle(b.Start)
		b.End = ClampAngle(b.End)
		if b.Start >= b.End {
			continue
		}
		bands = append(bands, b)
	}

	return bands
}
