/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package dial

// MinTransmitDelta is the smallest needle travel, in degrees, worth telling
// the other players about.
const MinTransmitDelta = 2

// Throttle bounds outbound needle updates to about one per MinTransmitDelta
// degrees of travel, whatever the pointer sampling rate.
type Throttle struct {
	last int
	send func(angle int)
}

func NewThrottle(initial int, send func(angle int)) *Throttle {
	return &Throttle{last: ClampAngle(initial), send: send}
}

// Offer transmits angle if it is far enough from the last transmitted one,
// and reports whether it did.
func (t *Throttle) Offer(angle int) bool {
	angle = ClampAngle(angle)

	d := angle - t.last
	if d < 0 {
		d = -d
	}
	if d < MinTransmitDelta {
		return false
	}

	t.last = angle
	if t.send != nil {
		t.send(angle)
	}

	return true
}

// Reset rebases the throttle without transmitting, e.g. when a new dial
// starts with the needle already at angle.
func (t *Throttle) Reset(angle int) {
	t.last = ClampAngle(angle)
}

func (t *Throttle) Last() int {
	return t.last
}
