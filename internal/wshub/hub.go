package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/coder/websocket"

	"storefloor/internal/events"
	"storefloor/internal/zones"
)

const (
	TypeMove   = "move"
	TypeLeave  = "leave"
	TypeClick  = "click"
	TypeResize = "resize"
	TypeSubmit = "submit"
	TypeClose  = "close"

	TypeHello   = "hello"
	TypeEvent   = "event"
	TypePortal  = "portal"
	TypeInvalid = "invalid"
	TypeCue     = "cue"
)

// ClientMessage is the JSON structure received from clients. X and Y are
// client coordinates; L, Top, W and H describe the floor plan's bounding
// rectangle in the same space.
type ClientMessage struct {
	Type  string  `json:"t"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	L     float64 `json:"l,omitempty"`
	Top   float64 `json:"top,omitempty"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
	Name  string  `json:"name,omitempty"`
	Email string  `json:"email,omitempty"`
}

func (m ClientMessage) Point() zones.Point {
	return zones.Point{X: m.X, Y: m.Y}
}

func (m ClientMessage) Surface() zones.Rect {
	return zones.Rect{X: m.L, Y: m.Top, W: m.W, H: m.H}
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type   string            `json:"t"`
	Code   string            `json:"code,omitempty"`
	Visit  string            `json:"visit,omitempty"`
	Event  *events.Event     `json:"event,omitempty"`
	Open   bool              `json:"open,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Layout string            `json:"layout,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	Code string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub maps session codes to their live connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub, replacing and closing any earlier
// connection for the same session.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[c.Code]; ok && old != c {
		close(old.Send)
	}
	h.clients[c.Code] = c
}

// Unregister removes the client and closes its Send channel. A client that
// was already replaced is left alone.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.Code]; ok && cur == c {
		close(c.Send)
		delete(h.clients, c.Code)
	}
}

// Send queues msg for the session's client. Non-blocking: it reports false
// when no client is connected or its channel is full.
func (h *Hub) Send(code string, msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[code]
	if !ok {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		// Drop message if channel full
		return false
	}
}

func (h *Hub) Connected(code string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[code]
	return ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
