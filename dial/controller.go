/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package dial

// PointerKind tells mouse and touch input apart. Both feed the same stream;
// touch additionally suppresses page scrolling while a drag is engaged.
type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
)

// PointerEvent is a pointer sample in drawing-surface coordinates.
type PointerEvent struct {
	Kind PointerKind
	X    float64
	Y    float64
}

// Controller holds drag capture for one dial. A nil change callback makes the
// dial read-only.
type Controller struct {
	geom     Geometry
	onChange func(angle int)
	dragging bool
}

func NewController(geom Geometry, onChange func(angle int)) *Controller {
	return &Controller{geom: geom, onChange: onChange}
}

// SetOnChange swaps the change callback, e.g. when the local player becomes
// the clue owner or locks in a guess. Clearing it also releases any drag.
func (c *Controller) SetOnChange(fn func(angle int)) {
	c.onChange = fn
	if fn == nil {
		c.dragging = false
	}
}

func (c *Controller) Interactive() bool {
	return c.onChange != nil
}

func (c *Controller) Dragging() bool {
	return c.dragging
}

// Cursor is the CSS cursor the dial surface should show.
func (c *Controller) Cursor() string {
	if c.Interactive() {
		return "pointer"
	}

	return "default"
}

// PointerDown engages the drag and reports the angle under the pointer at
// once, without any minimum travel.
func (c *Controller) PointerDown(ev PointerEvent) {
	if !c.Interactive() {
		return
	}

	c.dragging = true
	c.onChange(c.geom.PointToAngle(ev.X, ev.Y))
}

// PointerMove reports the angle while a drag is engaged. The return value
// says whether the host should suppress its default scrolling.
func (c *Controller) PointerMove(ev PointerEvent) bool {
	if !c.Interactive() || !c.dragging {
		return false
	}

	c.onChange(c.geom.PointToAngle(ev.X, ev.Y))

	return ev.Kind == Touch
}

// PointerUp ends the drag. Leave and cancel behave the same way, so leaving
// the hit area while still pressed does not keep the needle captured.
func (c *Controller) PointerUp() {
	c.dragging = false
}

func (c *Controller) PointerLeave() {
	c.PointerUp()
}

func (c *Controller) PointerCancel() {
	c.PointerUp()
}
