package ui

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 64
)

// Event is one UI update pushed over the status stream.
type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

const (
	EventStatus      = "STATUS"
	EventFace        = "FACE"
	EventTrigger     = "TRIGGER"
	EventResult      = "RESULT"
	EventClearResult = "CLEAR_RESULT"
)

// Hub implements the Display port by broadcasting UI events to connected
// websocket clients. New clients receive a snapshot of the current display
// state on connect.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	status         string
	signal         domain.DetectionSignal
	triggerEnabled bool
	result         *ports.ResultView
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// ServeHTTP upgrades the connection and streams display events until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	snapshot := h.snapshotLocked()
	h.mu.Unlock()

	for _, ev := range snapshot {
		select {
		case c.send <- ev:
		default:
		}
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The stream is one-way; inbound messages are drained and discarded.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Close disconnects every client. The hub accepts no connections afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
	}
	h.clients = make(map[*client]struct{})
}

func (h *Hub) SetStatus(msg string) {
	h.mu.Lock()
	h.status = msg
	h.mu.Unlock()
	h.broadcast(Event{Type: EventStatus, Payload: msg, Timestamp: time.Now().Unix()})
}

func (h *Hub) SetFaceIndicator(signal domain.DetectionSignal) {
	h.mu.Lock()
	h.signal = signal
	h.mu.Unlock()
	h.broadcast(Event{Type: EventFace, Payload: signal.String(), Timestamp: time.Now().Unix()})
}

func (h *Hub) SetTriggerEnabled(enabled bool) {
	h.mu.Lock()
	h.triggerEnabled = enabled
	h.mu.Unlock()
	h.broadcast(Event{Type: EventTrigger, Payload: enabled, Timestamp: time.Now().Unix()})
}

func (h *Hub) ShowResult(view ports.ResultView) {
	h.mu.Lock()
	h.result = &view
	h.mu.Unlock()
	h.broadcast(Event{Type: EventResult, Payload: view, Timestamp: time.Now().Unix()})
}

func (h *Hub) ClearResult() {
	h.mu.Lock()
	h.result = nil
	h.mu.Unlock()
	h.broadcast(Event{Type: EventClearResult, Timestamp: time.Now().Unix()})
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			// Slow client; skip rather than block the session.
		}
	}
}

// snapshotLocked builds the events a fresh client needs to render current
// state. Caller holds h.mu.
func (h *Hub) snapshotLocked() []Event {
	now := time.Now().Unix()
	events := []Event{
		{Type: EventStatus, Payload: h.status, Timestamp: now},
		{Type: EventFace, Payload: h.signal.String(), Timestamp: now},
		{Type: EventTrigger, Payload: h.triggerEnabled, Timestamp: now},
	}
	if h.result != nil {
		events = append(events, Event{Type: EventResult, Payload: *h.result, Timestamp: now})
	}
	return events
}

var _ ports.Display = (*Hub)(nil)
