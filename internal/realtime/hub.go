package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait (seconds) are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Hub maintains poll_id -> set of connections and broadcasts vote events.
// Uses Redis pub/sub for horizontal scaling: local broadcast + publish.
type Hub struct {
	// pollID -> map[clientID]*Client
	polls  map[uuid.UUID]map[string]*Client
	subs   map[uuid.UUID]func() // cancel Redis subscription per poll
	mu     sync.RWMutex
	logger *zap.Logger
	pub    Publisher
	sub    Subscriber
}

// Publisher publishes poll events for cross-instance broadcast.
type Publisher interface {
	PublishPollEvent(pollID uuid.UUID, event string, payload []byte) error
}

// Subscriber subscribes to a poll's channel and invokes handler for incoming events.
type Subscriber interface {
	SubscribePoll(pollID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		polls:  make(map[uuid.UUID]map[string]*Client),
		subs:   make(map[uuid.UUID]func()),
		logger: logger,
		pub:    pub,
		sub:    sub,
	}
}

// Register adds a client to a poll room. The Redis subscription for the
// poll starts with the first client and is held until the last one leaves.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.polls[c.PollID] == nil {
		h.polls[c.PollID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribePoll(c.PollID, func(event string, payload []byte) {
				h.BroadcastToPoll(c.PollID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.PollID] = cancel
			}
		}
	}
	h.polls[c.PollID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined poll", zap.String("client_id", c.ID), zap.String("poll_id", c.PollID.String()))
}

// Unregister removes a client from a poll room, cancelling the Redis
// subscription when the room empties.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.polls[c.PollID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.polls, c.PollID)
			if cancel, ok := h.subs[c.PollID]; ok {
				cancel()
				delete(h.subs, c.PollID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left poll", zap.String("client_id", c.ID), zap.String("poll_id", c.PollID.String()))
}

// BroadcastToPoll sends a message to all clients in a poll room (local only).
func (h *Hub) BroadcastToPoll(pollID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.polls[pollID]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToPollAndPublish sends to local clients and publishes to Redis
// for other instances.
func (h *Hub) BroadcastToPollAndPublish(pollID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToPoll(pollID, event, json.RawMessage(data))
	if h.pub != nil {
		_ = h.pub.PublishPollEvent(pollID, event, data)
	}
}

// ClientCount returns the number of connected clients in a poll room.
func (h *Hub) ClientCount(pollID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.polls[pollID])
}
