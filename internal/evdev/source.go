// Package evdev reads key events straight from a Linux input device
// (/dev/input/eventN). Unlike a windowed host it sees real press, repeat and
// release transitions regardless of focus.
package evdev

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"
	"sync"

	"framekeys/internal/keyboard"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
)

const tag = "evdev"

type Source struct {
	name      string
	r         io.ReadCloser
	closeOnce sync.Once

	// keys whose key-down reached the queue and whose key-up has not
	held map[string]struct{}
}

// Open opens an input device for reading. Reading usually requires root or
// membership in the input group.
func Open(device string) (*Source, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s open %s", tag, device)
	}
	return NewSource(device, f), nil
}

// NewSource wraps an already open event stream.
func NewSource(name string, r io.ReadCloser) *Source {
	return &Source{name: name, r: r, held: make(map[string]struct{})}
}

func (s *Source) String() string { return tag + ":" + s.name }

// KeyName is the identifier reported for a scan code: its decimal value,
// e.g. "30" for KEY_A.
func KeyName(code uint16) string {
	return strconv.FormatUint(uint64(code), 10)
}

// Event converts a raw input event. ok is false for anything that is not a
// key transition.
func Event(ie inputevent.InputEvent) (ev keyboard.Event, ok bool) {
	if ie.Type != inputevent.EV_KEY {
		return keyboard.Event{}, false
	}
	switch inputevent.KeyEventState(ie.Value) {
	case inputevent.KeyStateDown, inputevent.KeyStateHold:
		return keyboard.Event{Key: KeyName(ie.Code), Down: true}, true
	case inputevent.KeyStateUp:
		return keyboard.Event{Key: KeyName(ie.Code)}, true
	default:
		return keyboard.Event{}, false
	}
}

// Run reads until ctx is cancelled or the device fails, pushing key events to
// q. Cancellation closes the device to unblock the pending read and Run
// returns nil. Keys still held when Run returns, including ones whose key-up
// was dropped by a full queue, are released on the way out.
func (s *Source) Run(ctx context.Context, q *keyboard.Queue) error {
	stop := context.AfterFunc(ctx, s.close)
	defer stop()
	defer s.releaseHeld(q)
	defer s.close()

	for {
		ie, err := inputevent.ReadOne(s.r)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if err == io.EOF {
				log.Printf("%s: end of stream", s)
				return nil
			}
			return errors.Annotatef(err, "%s read", s)
		}
		ev, ok := Event(ie)
		if !ok {
			continue
		}
		s.forward(q, ev)
	}
}

// forward pushes ev and tracks held keys only for events that were queued.
func (s *Source) forward(q *keyboard.Queue, ev keyboard.Event) {
	if !q.Push(ev) {
		log.Printf("%s: queue full, dropped %s", s, ev)
		return
	}
	if ev.Down {
		s.held[ev.Key] = struct{}{}
	} else {
		delete(s.held, ev.Key)
	}
}

// releaseHeld queues a key-up for every tracked key and returns how many
// were queued. Keys whose release does not fit stay tracked.
func (s *Source) releaseHeld(q *keyboard.Queue) int {
	released := 0
	for key := range s.held {
		if !q.Push(keyboard.Event{Key: key}) {
			log.Printf("%s: queue full, key %s stays held", s, key)
			continue
		}
		delete(s.held, key)
		released++
	}
	return released
}

func (s *Source) close() {
	s.closeOnce.Do(func() {
		if err := s.r.Close(); err != nil {
			log.Printf("%s: close: %v", s, err)
		}
	})
}
