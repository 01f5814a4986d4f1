package bridge

import (
	"log"
	"sync"
	"time"

	"framekeys/internal/keyboard"

	"github.com/gorilla/websocket"
)

// session is one connected page. It remembers which keys the page holds so
// they can be released if the page goes away mid-press.
type session struct {
	id    string
	ws    *websocket.Conn
	queue *keyboard.Queue

	held      map[string]struct{}
	closeOnce sync.Once
	done      chan struct{}
}

func newSession(id string, ws *websocket.Conn, q *keyboard.Queue) *session {
	return &session{
		id:    id,
		ws:    ws,
		queue: q,
		held:  make(map[string]struct{}),
		done:  make(chan struct{}),
	}
}

func (s *session) readLoop(limit int64, pongWait time.Duration) {
	if limit > 0 {
		s.ws.SetReadLimit(limit)
	}
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("bridge: session %s read error: %v", s.id, err)
			}
			return
		}
		ev, err := ParseMessage(msg)
		if err != nil {
			log.Printf("bridge: session %s: %v", s.id, err)
			continue
		}
		s.forward(ev)
	}
}

// forward queues ev and updates the per-session held set. held only follows
// events that reached the queue, so a dropped key-up leaves the key tracked
// and close still releases it. Only the reading goroutine touches held until
// close.
func (s *session) forward(ev keyboard.Event) {
	if !s.queue.Push(ev) {
		log.Printf("bridge: session %s queue full, dropped %s", s.id, ev)
		return
	}
	if ev.Down {
		s.held[ev.Key] = struct{}{}
	} else {
		delete(s.held, ev.Key)
	}
}

// releaseHeld queues a key-up for every key the page still holds and returns
// how many were queued. Keys whose release does not fit stay in held.
func (s *session) releaseHeld() int {
	released := 0
	for key := range s.held {
		if !s.queue.Push(keyboard.Event{Key: key}) {
			log.Printf("bridge: session %s queue full, %q stays held", s.id, key)
			continue
		}
		delete(s.held, key)
		released++
	}
	return released
}

func (s *session) pingLoop(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// close releases held keys and closes the socket. It must run after readLoop
// has returned.
func (s *session) close() int {
	released := 0
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.ws.Close()
		released = s.releaseHeld()
	})
	return released
}
