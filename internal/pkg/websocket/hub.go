package websocket

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Live feed message types
const (
	TypeEventCreated = "event.created"
	TypeRSVPToggled  = "rsvp.toggled"
)

// Message is pushed to live feed subscribers
type Message struct {
	Type      string      `json:"type"`
	EventID   string      `json:"eventId"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients map[*Client]bool

	// Outbound messages waiting to be fanned out
	broadcast chan *Message

	register   chan *Client
	unregister chan *Client

	done     chan struct{}
	stopOnce sync.Once
	count    atomic.Int64

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "live_feed").Logger(),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug().Str("eventId", client.eventID).Int("clients", len(h.clients)).Msg("Client registered")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.fanOut(message)

		case <-h.done:
			for client := range h.clients {
				h.remove(client)
			}
			return
		}
	}
}

// Stop closes every client and ends Run
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish queues a message for subscribers. It drops the message rather than
// block when the hub is saturated or stopped.
func (h *Hub) Publish(msgType, eventID string, payload interface{}) {
	msg := &Message{
		Type:      msgType,
		EventID:   eventID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn().Str("type", msgType).Str("eventId", eventID).Msg("Live feed saturated, dropping message")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) fanOut(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Str("type", message.Type).Msg("Failed to marshal live feed message")
		return
	}

	for client := range h.clients {
		if !client.wants(message.EventID) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow consumer
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
	h.logger.Debug().Str("eventId", client.eventID).Int("clients", len(h.clients)).Msg("Client unregistered")
}

// leave asks Run to drop client. It returns immediately once the hub has stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// join hands client to Run. It reports false when the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}
