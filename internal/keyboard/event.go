package keyboard

import "fmt"

// Listener receives key transitions. *State is the usual implementation.
type Listener interface {
	OnKeyDown(key string)
	OnKeyUp(key string)
}

// compile-time interface compliance test
var _ Listener = (*State)(nil)

// Event is a single key transition reported by a host.
type Event struct {
	Key  string
	Down bool
}

// Deliver dispatches the event to l.
func (e Event) Deliver(l Listener) {
	if e.Down {
		l.OnKeyDown(e.Key)
	} else {
		l.OnKeyUp(e.Key)
	}
}

func (e Event) String() string {
	if e.Down {
		return fmt.Sprintf("down(%q)", e.Key)
	}
	return fmt.Sprintf("up(%q)", e.Key)
}

// DropRecorder is told about events a Queue had to discard.
type DropRecorder interface {
	RecordDrop()
}

// Queue hands events from host goroutines to the loop goroutine.
// Push is safe from any goroutine; Drain must be called from the loop.
type Queue struct {
	ch    chan Event
	drops DropRecorder
}

// NewQueue creates a queue holding at most size undelivered events.
// drops may be nil.
func NewQueue(size int, drops DropRecorder) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Event, size), drops: drops}
}

// Push enqueues e without blocking. It returns false if the queue was full
// and the event was discarded.
func (q *Queue) Push(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		if q.drops != nil {
			q.drops.RecordDrop()
		}
		return false
	}
}

// Drain delivers the events queued at the time of the call to l, in arrival
// order, and returns how many were delivered. Events pushed while draining
// wait for the next call.
func (q *Queue) Drain(l Listener) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		(<-q.ch).Deliver(l)
	}
	return n
}

// Len returns the number of events waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}
