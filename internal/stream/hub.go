// Package stream broadcasts simulation progress to websocket clients.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	sendBuffer = 64
)

type Energy struct {
	Total     float64 `json:"total"`
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
}

type Collision struct {
	Planet   int     `json:"planet"`
	Probe    int     `json:"probe"`
	Distance float64 `json:"distance"`
}

type Day struct {
	Day           int          `json:"day"`
	Days          int          `json:"days"`
	Level         int          `json:"level"`
	MaxRatio      float64      `json:"max_ratio"`
	Energy        Energy       `json:"energy"`
	Collisions    []Collision  `json:"collisions,omitempty"`
	Positions     [][3]float64 `json:"positions,omitempty"`
	DaysPerSecond float64      `json:"days_per_second"`
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Type  string `json:"type"` // "day" or "done"
	Day   *Day   `json:"day,omitempty"`
	Error string `json:"error,omitempty"`
}

func newDay(r dynamo.DayReport) *Day {
	d := &Day{
		Day:           r.Day,
		Days:          r.Days,
		Level:         int(r.Level),
		MaxRatio:      r.MaxRatio,
		Energy:        Energy{r.Energy.Total, r.Energy.Kinetic, r.Energy.Potential},
		DaysPerSecond: r.DaysPerSecond,
	}
	for _, c := range r.Collisions {
		d.Collisions = append(d.Collisions, Collision{c.Planet, c.Probe, c.Distance})
	}
	for _, x := range r.Positions {
		d.Positions = append(d.Positions, [3]float64(x))
	}
	return d
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	pongWait time.Duration
}

// Hub upgrades HTTP requests to websockets and fans out day reports to
// every connected client. A client that cannot keep up loses messages
// rather than slowing the run down.
type Hub struct {
	upgrader websocket.Upgrader

	// PongWait is how long a client may stay silent before it is dropped.
	// Pings go out at 9/10 of it.
	PongWait time.Duration

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*client]struct{}),
		PongWait: pongWait,
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), pongWait: h.PongWait}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump()
	h.remove(c)
}

// readPump discards client input and returns once the connection closes
// or no pong arrives within pongWait.
func (c *client) readPump() {
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) OnDay(r dynamo.DayReport) {
	h.broadcast(Message{Type: "day", Day: newDay(r)})
}

// Done tells clients the run has finished.
func (h *Hub) Done(err error) {
	m := Message{Type: "done"}
	if err != nil {
		m.Error = err.Error()
	}
	h.broadcast(m)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
