/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package dial

import (
	"strings"
	"testing"
)

func TestAngleRoundTrip(t *testing.T) {
	geometries := []Geometry{Default, {CX: 0, CY: 0, R: 10}, {CX: 400, CY: 300, R: 250}}
	for _, g := range geometries {
		for _, r := range []float64{g.R, g.R - 8, g.R * 0.5, g.R * 0.75} {
			for a := MinAngle; a <= MaxAngle; a++ {
				x, y := g.AngleToPoint(float64(a), r)
				if got := g.PointToAngle(x, y); got != a {
					t.Fatalf("geometry %+v radius %v: round trip of %d gave %d", g, r, a, got)
				}
			}
		}
	}
}

func TestPointToAngleClamps(t *testing.T) {
	g := Default
	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"left on baseline", g.CX - 50, g.CY, 0},
		{"right on baseline", g.CX + 50, g.CY, 180},
		{"straight up", g.CX, g.CY - 40, 90},
		{"below left", g.CX - 30, g.CY + 10, 0},
		{"below right", g.CX + 30, g.CY + 10, 180},
		{"far below left", g.CX - 1, g.CY + 500, 0},
		{"far below right", g.CX + 1, g.CY + 500, 180},
		{"center", g.CX, g.CY, 90},
	}
	for _, tt := range tests {
		got := g.PointToAngle(tt.x, tt.y)
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
		if got < MinAngle || got > MaxAngle {
			t.Errorf("%s: %d outside dial range", tt.name, got)
		}
	}
}

func TestPointsAroundTarget(t *testing.T) {
	tests := []struct {
		needle int
		want   int
	}{
		{90, 4}, {85, 4}, {95, 4},
		{84, 3}, {96, 3}, {79, 3}, {101, 3},
		{78, 2}, {102, 2}, {71, 2},
		{70, 0}, {110, 0}, {0, 0},
	}
	for _, tt := range tests {
		if got := Points(90, tt.needle); got != tt.want {
			t.Errorf("needle %d: got %d points, want %d", tt.needle, got, tt.want)
		}
	}
}

func TestPointsClampsOutOfRangeInput(t *testing.T) {
	if got := Points(-20, 0); got != 4 {
		t.Errorf("got %d, want 4 for a target clamped to 0", got)
	}
	if got := Points(180, 400); got != 4 {
		t.Errorf("got %d, want 4 for a needle clamped to 180", got)
	}
}

func TestBandsNearEdge(t *testing.T) {
	bands := Bands(3)
	for _, b := range bands {
		if b.Start < MinAngle || b.End > MaxAngle || b.Start >= b.End {
			t.Fatalf("band %+v not clamped", b)
		}
	}
	if len(bands) != 3 {
		t.Fatalf("got %d bands, want 3 once the left side falls off", len(bands))
	}
	if last := bands[len(bands)-1]; last.Points != 4 || last.Start != 0 || last.End != 8 {
		t.Errorf("bullseye %+v, want {0 8 4}", last)
	}

	if got := len(Bands(90)); got != 5 {
		t.Errorf("got %d bands at the middle, want 5", got)
	}
}

func TestArcPathLargeArcFlag(t *testing.T) {
	g := Default
	small := g.ArcPath(80, 100, 50, 100)
	if !strings.Contains(small, " 0 0 0 ") {
		t.Errorf("narrow wedge should not set the large-arc flag: %s", small)
	}
	large := g.ArcPath(-10, 190, 50, 100)
	if !strings.Contains(large, " 0 1 0 ") {
		t.Errorf("wide wedge should set the large-arc flag: %s", large)
	}
	if !strings.HasPrefix(small, "M ") || !strings.HasSuffix(small, " Z") {
		t.Errorf("path not closed: %s", small)
	}
}

func TestControllerReadOnly(t *testing.T) {
	c := NewController(Default, nil)
	c.PointerDown(PointerEvent{X: 30, Y: 120})
	if c.Dragging() {
		t.Error("read-only dial should never engage a drag")
	}
	if c.PointerMove(PointerEvent{Kind: Touch, X: 40, Y: 100}) {
		t.Error("read-only dial should not suppress scrolling")
	}
	if c.Cursor() != "default" {
		t.Errorf("cursor %q, want default", c.Cursor())
	}
}

func TestControllerDrag(t *testing.T) {
	var got []int
	c := NewController(Default, func(a int) { got = append(got, a) })

	c.PointerMove(PointerEvent{X: Default.CX, Y: 20})
	if len(got) != 0 {
		t.Fatalf("move before down reported %v", got)
	}

	c.PointerDown(PointerEvent{X: Default.CX - 50, Y: Default.CY})
	if !c.Dragging() || len(got) != 1 || got[0] != 0 {
		t.Fatalf("down: dragging=%v reports=%v", c.Dragging(), got)
	}

	if !c.PointerMove(PointerEvent{Kind: Touch, X: Default.CX, Y: 20}) {
		t.Error("touch move while dragging should suppress scrolling")
	}
	if got[1] != 90 {
		t.Errorf("move reported %d, want 90", got[1])
	}

	c.PointerLeave()
	if c.Dragging() {
		t.Error("leave should release the drag")
	}
	c.PointerMove(PointerEvent{X: Default.CX + 50, Y: Default.CY})
	if len(got) != 2 {
		t.Errorf("move after leave reported %v", got)
	}
}

func TestControllerDisableReleasesDrag(t *testing.T) {
	c := NewController(Default, func(int) {})
	c.PointerDown(PointerEvent{X: 10, Y: 10})
	c.SetOnChange(nil)
	if c.Dragging() {
		t.Error("disabling the dial should release the drag")
	}
}

func TestThrottleSendsOncePerTwoDegrees(t *testing.T) {
	var sent []int
	th := NewThrottle(50, func(a int) { sent = append(sent, a) })

	for _, a := range []int{50, 51, 53} {
		th.Offer(a)
	}

	if len(sent) != 1 || sent[0] != 53 {
		t.Fatalf("sent %v, want [53]", sent)
	}
	if th.Last() != 53 {
		t.Errorf("last %d, want 53", th.Last())
	}
}

func TestThrottleReset(t *testing.T) {
	var sent []int
	th := NewThrottle(90, func(a int) { sent = append(sent, a) })
	th.Reset(20)
	th.Offer(21)
	th.Offer(18)
	if len(sent) != 1 || sent[0] != 18 {
		t.Fatalf("sent %v, want [18]", sent)
	}
}
