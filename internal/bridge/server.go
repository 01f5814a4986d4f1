// Package bridge lets a browser page act as the keyboard host. The page
// forwards its keydown/keyup DOM events over a WebSocket and the server
// queues them for the frame loop.
package bridge

import (
	"context"
	_ "embed"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"framekeys/internal/config"
	"framekeys/internal/keyboard"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/juju/errors"
)

//go:embed page.html
var page []byte

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Server struct {
	cfg   config.BridgeConfig
	queue *keyboard.Queue

	mu    sync.Mutex
	conns map[string]*session
}

func NewServer(cfg config.BridgeConfig, q *keyboard.Queue) *Server {
	return &Server{cfg: cfg, queue: q, conns: make(map[string]*session)}
}

// Handler serves the page at / and the socket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// ListenAndServe runs until ctx is cancelled. Cancellation closes every open
// socket, which releases the keys those pages were holding.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return errors.Annotatef(err, "bridge listen %s", s.cfg.Listen)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			s.closeAll()
		case <-done:
		}
	}()
	defer close(done)

	log.Printf("bridge: open http://%s/ in a browser", ln.Addr())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return errors.Annotate(err, "bridge serve")
	}
	return nil
}

// Sessions returns the number of connected pages.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("bridge: upgrade error:", err)
		return
	}

	sess := newSession(uuid.NewString(), ws, s.queue)
	s.mu.Lock()
	s.conns[sess.id] = sess
	s.mu.Unlock()
	log.Printf("bridge: session %s connected from %s", sess.id, r.RemoteAddr)

	go sess.pingLoop(s.cfg.PingPeriod)
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.conns, sess.id)
			s.mu.Unlock()
			released := sess.close()
			log.Printf("bridge: session %s closed, released %d keys", sess.id, released)
		}()
		sess.readLoop(s.cfg.ReadLimit, s.cfg.PongWait)
	}()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.conns {
		_ = sess.ws.Close()
	}
}
