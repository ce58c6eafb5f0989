package game

import "time"

// Action is a player command, independent of the device that produced it.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionDown
	ActionRotate
	ActionSoftDrop
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDown:
		return "Down"
	case ActionRotate:
		return "Rotate"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionPause:
		return "Pause"
	}
	return "Unknown"
}

// repeatable reports whether holding the action repeats it (delayed auto shift).
func (a Action) repeatable() bool {
	return a == ActionLeft || a == ActionRight || a == ActionDown
}

// Repeater implements delayed auto shift for one held input: nothing happens
// until delay has passed since the press, then a repeat is due every interval
// until release.
type Repeater struct {
	delay    time.Duration
	interval time.Duration
	held     bool
	next     time.Time
}

func NewRepeater(delay, interval time.Duration) *Repeater {
	return &Repeater{
		delay:    delay,
		interval: interval,
	}
}

// Press starts tracking a hold that began at now.
func (r *Repeater) Press(now time.Time) {
	r.held = true
	r.next = now.Add(r.delay + r.interval)
}

// Release cancels the hold. No repeat is due after a release.
func (r *Repeater) Release() {
	r.held = false
}

func (r *Repeater) Held() bool {
	return r.held
}

// Due reports whether a repeat should fire at now and schedules the next one.
// At most one repeat fires per call; a stalled caller does not get a burst.
func (r *Repeater) Due(now time.Time) bool {
	if !r.held || now.Before(r.next) {
		return false
	}
	r.next = r.next.Add(r.interval)
	if r.next.Before(now) {
		r.next = now.Add(r.interval)
	}
	return true
}
