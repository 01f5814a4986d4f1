// keytracker.go - turns ebiten's polled key state into key-down/key-up events
// for a keyboard.Listener.
package keytracker

import (
	"slices"

	"framekeys/internal/keyboard"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PollFunc appends the currently pressed keys to keys and returns the result.
type PollFunc func(keys []ebiten.Key) []ebiten.Key

// Tracker remembers which keys were pressed at the previous poll.
type Tracker struct {
	poll        PollFunc
	prevPressed []ebiten.Key
	pressed     []ebiten.Key
}

// New creates a tracker. A nil poll uses inpututil.AppendPressedKeys.
func New(poll PollFunc) *Tracker {
	if poll == nil {
		poll = inpututil.AppendPressedKeys
	}
	return &Tracker{poll: poll}
}

// Update polls the keyboard and reports every change since the last poll:
// releases first, then presses, each in ascending key order. It returns the
// number of events sent to l.
func (t *Tracker) Update(l keyboard.Listener) int {
	t.pressed = t.poll(t.pressed[:0])
	slices.Sort(t.pressed)
	t.pressed = slices.Compact(t.pressed)

	n := 0
	for _, k := range t.prevPressed {
		if _, found := slices.BinarySearch(t.pressed, k); !found {
			l.OnKeyUp(k.String())
			n++
		}
	}
	for _, k := range t.pressed {
		if _, found := slices.BinarySearch(t.prevPressed, k); !found {
			l.OnKeyDown(k.String())
			n++
		}
	}

	t.prevPressed, t.pressed = t.pressed, t.prevPressed
	return n
}

// Reset releases every key the tracker last reported as pressed, e.g. when
// the window loses focus and ebiten stops reporting releases.
func (t *Tracker) Reset(l keyboard.Listener) int {
	n := len(t.prevPressed)
	for _, k := range t.prevPressed {
		l.OnKeyUp(k.String())
	}
	t.prevPressed = t.prevPressed[:0]
	return n
}

// Held returns the keys reported as pressed by the last Update.
func (t *Tracker) Held() []ebiten.Key {
	return slices.Clone(t.prevPressed)
}
