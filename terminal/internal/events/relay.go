// Package events relays the backend's realtime feed to the displays attached
// to this terminal, together with the terminal's own notifications.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"

	"github.com/gorilla/websocket"
)

const (
	defaultRetry = 5 * time.Second
	writeWait    = 5 * time.Second
	sendBuffer   = 64
)

// Envelope wraps messages the terminal raises itself. Backend events are
// forwarded as received.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Relay struct {
	url   string
	token func() string
	log   *logger.Logger
	retry time.Duration

	dialer   *websocket.Dialer
	upgrader websocket.Upgrader

	mu          sync.Mutex
	buffer      int
	subscribers []*subscriber
}

// subscriber is one attached display. Messages queued on send are written
// by the display's own goroutine.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

func (s *subscriber) writeLoop() {
	for msg := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.conn.Close()
			for range s.send {
			}
			return
		}
	}
}

// NewRelay returns a relay for the backend feed at url. token supplies the
// bearer token for each dial; an empty url disables the upstream side.
func NewRelay(url string, token func() string, log *logger.Logger) *Relay {
	return &Relay{
		url:    url,
		token:  token,
		log:    log,
		retry:  defaultRetry,
		buffer: sendBuffer,
		dialer: websocket.DefaultDialer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run keeps a connection to the backend feed open until ctx is done,
// redialing after every failure.
func (r *Relay) Run(ctx context.Context) {
	if r.url == "" {
		return
	}
	for {
		if err := r.consume(ctx); err != nil && ctx.Err() == nil {
			r.log.Warn("ws_relay", "", "backend feed dropped: "+err.Error())
		}
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-time.After(r.retry):
		}
	}
}

func (r *Relay) consume(ctx context.Context) error {
	header := http.Header{}
	if r.token != nil {
		if token := r.token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}
	conn, _, err := r.dialer.DialContext(ctx, r.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	r.log.Info("ws_relay", "", "connected to backend feed")
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		r.Broadcast(msg)
	}
}

// ServeHTTP attaches a display. The connection stays subscribed until the
// display disconnects.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Error("ws_subscribe", "", "websocket upgrade failed", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, r.buffer)}
	r.mu.Lock()
	r.subscribers = append(r.subscribers, sub)
	r.mu.Unlock()
	go sub.writeLoop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.mu.Lock()
	r.dropLocked(sub)
	r.mu.Unlock()
}

// dropLocked detaches sub if it is still subscribed. r.mu must be held.
func (r *Relay) dropLocked(sub *subscriber) {
	for i, s := range r.subscribers {
		if s == sub {
			r.subscribers = append(r.subscribers[:i:i], r.subscribers[i+1:]...)
			close(sub.send)
			sub.conn.Close()
			return
		}
	}
}

// Broadcast queues msg for every display. A display whose queue is full
// has stopped reading and is dropped.
func (r *Relay) Broadcast(msg []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stalled []*subscriber
	for _, sub := range r.subscribers {
		select {
		case sub.send <- msg:
		default:
			stalled = append(stalled, sub)
		}
	}
	for _, sub := range stalled {
		r.log.Warn("ws_broadcast", "", "display not reading, dropped")
		r.dropLocked(sub)
	}
}

func (r *Relay) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// PublishNotification forwards a terminal notification to the displays.
func (r *Relay) PublishNotification(n notify.Notification) {
	msg, err := json.Marshal(Envelope{Type: "notification", Data: n})
	if err != nil {
		return
	}
	r.Broadcast(msg)
}

func (r *Relay) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.subscribers) > 0 {
		r.dropLocked(r.subscribers[0])
	}
}
