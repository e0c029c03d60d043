// Package remote exposes the panel over HTTP: operator actions arrive on a
// websocket at /ws and status text is streamed as server-sent events from
// /status.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/thiefmaster/eventsource"
)

const (
	statusChannel = "status"
	actionBuffer  = 16
)

type Request struct {
	Action string `json:"action"`
}

type statusEvent struct {
	id   uint64
	text string
}

func (e statusEvent) Id() string    { return strconv.FormatUint(e.id, 10) }
func (e statusEvent) Event() string { return statusChannel }
func (e statusEvent) Data() string  { return e.text }

type Server struct {
	addr     string
	actions  chan string
	events   *eventsource.Server
	upgrader websocket.Upgrader
	seq      atomic.Uint64
	log      logrus.FieldLogger

	mu     sync.Mutex
	closed bool
}

func New(addr string, log logrus.FieldLogger) *Server {
	s := &Server{
		addr:    addr,
		actions: make(chan string, actionBuffer),
		events:  eventsource.NewServer(),
		log:     log,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: localOrigin}
	return s
}

// localOrigin accepts requests without an Origin header and browser pages
// served from this host or from localhost.
func localOrigin(r *http.Request) bool {
	origin := r.Header["Origin"]
	if len(origin) == 0 {
		return true
	}
	u, err := url.Parse(origin[0])
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return u.Host == r.Host
}

// Actions delivers action names received from remote clients. They are not
// validated here.
func (s *Server) Actions() <-chan string {
	return s.actions
}

// PublishStatus streams text to /status subscribers. It is a no-op once the
// server has stopped.
func (s *Server) PublishStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.events.Publish([]string{statusChannel}, statusEvent{id: s.seq.Add(1), text: text})
}

// closeEvents stops the event stream. The event server's Publish blocks
// forever after Close, so later publishes must be dropped here.
func (s *Server) closeEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.events.Close()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ws)
	mux.Handle("/status", s.events.Handler(statusChannel))
	return mux
}

func (s *Server) ws(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer c.Close()
	s.log.Infof("remote panel connected from %s", r.RemoteAddr)
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warnf("websocket read failed: %v", err)
			}
			return
		}
		var req Request
		if err := json.Unmarshal(message, &req); err != nil || req.Action == "" {
			s.log.Warnf("could not unmarshal remote request: %s", message)
			continue
		}
		select {
		case s.actions <- req.Action:
		case <-r.Context().Done():
			return
		}
	}
}

// Serve listens on the configured address until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Infof("remote panel listening on %s", ln.Addr())

	select {
	case err := <-errc:
		s.closeEvents()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.closeEvents()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warnf("remote panel shutdown: %v", err)
		srv.Close()
	}
	return nil
}
