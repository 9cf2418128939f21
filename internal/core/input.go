package core

import "time"

// Intent is the per-tick input the simulation consumes.
// The platform maps raw key events to intents.
type Intent int

const (
	IntentNone       Intent = iota
	IntentSteerLeft         // Left arrow, A
	IntentSteerRight        // Right arrow, D
	IntentRestart           // R
)

// String returns a human-readable name for the intent.
func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "None"
	case IntentSteerLeft:
		return "SteerLeft"
	case IntentSteerRight:
		return "SteerRight"
	case IntentRestart:
		return "Restart"
	default:
		return "Unknown"
	}
}

// IsSteer reports whether the intent is a steering direction.
func (i Intent) IsSteer() bool {
	return i == IntentSteerLeft || i == IntentSteerRight
}

// SteerLatch turns a stream of key presses into a held steering state.
// Terminals do not report key releases, only presses and auto-repeats, so a
// direction counts as held until no press for it has arrived within the
// hold window. The first press gets a longer window to bridge the keyboard's
// initial repeat delay.
type SteerLatch struct {
	hold        time.Duration
	initialHold time.Duration

	dir       Intent
	lastPress time.Time
	repeating bool
}

// NewSteerLatch creates a latch with the given repeat and initial windows.
func NewSteerLatch(hold, initialHold time.Duration) *SteerLatch {
	if initialHold < hold {
		initialHold = hold
	}
	return &SteerLatch{hold: hold, initialHold: initialHold}
}

// Press records a steering key press at now. Non-steering intents are ignored.
func (l *SteerLatch) Press(dir Intent, now time.Time) {
	if !dir.IsSteer() {
		return
	}
	l.repeating = dir == l.dir && l.within(now)
	l.dir = dir
	l.lastPress = now
}

// Release drops any held direction immediately.
func (l *SteerLatch) Release() {
	l.dir = IntentNone
	l.repeating = false
}

// Intent returns the held direction at now, or IntentNone once it expired.
func (l *SteerLatch) Intent(now time.Time) Intent {
	if l.dir == IntentNone {
		return IntentNone
	}
	if !l.within(now) {
		l.Release()
		return IntentNone
	}
	return l.dir
}

func (l *SteerLatch) within(now time.Time) bool {
	if l.dir == IntentNone {
		return false
	}
	window := l.initialHold
	if l.repeating {
		window = l.hold
	}
	return now.Sub(l.lastPress) <= window
}
