// Package realtime bridges a duplex voice websocket to the dispatcher and
// fans transcripts out to dashboard observers.
package realtime

import (
	"log"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// Observer is a connection the hub can push to. The hub only ever writes;
// reading stays with the relay that owns the socket.
type Observer interface {
	WriteJSON(v interface{}) error
	Ping() error
	Close() error
}

// Conn wraps a websocket connection with a write mutex so relay echoes and
// hub broadcasts never interleave a frame.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// NewConn wraps a raw websocket connection
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// ReadJSON reads the next frame. Only one reader may run per connection;
// the relay's read loop is that reader.
func (c *Conn) ReadJSON(v interface{}) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

// TranscriptEvent is the broadcast frame dashboards receive.
type TranscriptEvent struct {
	Type    string      `json:"type"`
	Message interface{} `json:"message"`
}

// TranscriptLine is one side of a voice exchange.
type TranscriptLine struct {
	From string `json:"from"` // "user", "agent"
	Text string `json:"text"`
}

// Hub is the dashboard observer registry. Membership changes and broadcasts
// may arrive from any connection goroutine.
type Hub struct {
	mu        sync.Mutex
	observers map[Observer]bool
	logger    *log.Logger
}

// NewHub creates an empty observer hub
func NewHub() *Hub {
	return &Hub{
		observers: make(map[Observer]bool),
		logger:    log.New(os.Stdout, "[HUB] ", log.LstdFlags),
	}
}

// Register adds an observer connection
func (h *Hub) Register(obs Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers[obs] = true
}

// Unregister removes an observer connection. Removing an observer that was
// never registered is a no-op.
func (h *Hub) Unregister(obs Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.observers, obs)
}

// Count returns the current number of observers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// Broadcast sends a transcript_message frame to every observer. A failed
// send drops that observer and the loop continues; one dead dashboard must
// not starve the rest.
func (h *Hub) Broadcast(message interface{}) {
	event := TranscriptEvent{Type: "transcript_message", Message: message}

	for _, obs := range h.snapshot() {
		if err := obs.WriteJSON(event); err != nil {
			h.logger.Printf("Dropping observer after failed send: %v", err)
			h.Unregister(obs)
			obs.Close()
		}
	}
}

// Sweep pings every observer and evicts the ones that no longer answer.
// Wired to a cron schedule in the server entrypoint.
func (h *Hub) Sweep() {
	for _, obs := range h.snapshot() {
		if err := obs.Ping(); err != nil {
			h.logger.Printf("Evicting dead observer: %v", err)
			h.Unregister(obs)
			obs.Close()
		}
	}
}

// snapshot copies the member set so sends happen outside the lock.
func (h *Hub) snapshot() []Observer {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := make([]Observer, 0, len(h.observers))
	for obs := range h.observers {
		members = append(members, obs)
	}
	return members
}
