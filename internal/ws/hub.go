// internal/ws/hub.go
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"fitcoach-service/internal/domain/booking"
	"fitcoach-service/internal/pkg/jwt"

	"go.uber.org/zap"
)

// Hub fans booking events out to every dashboard connection a trainer has
// open. One goroutine owns the registration and broadcast channels.
type Hub struct {
	// Registered clients by trainer ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *outbound

	verifier *jwt.Verifier
	logger   *zap.Logger
}

type outbound struct {
	trainerID string
	payload   []byte
}

func NewHub(verifier *jwt.Verifier, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *outbound, 256),
		verifier:   verifier,
		logger:     logger,
	}
}

// Authenticate validates an access token and returns the trainer ID it
// belongs to.
func (h *Hub) Authenticate(token string) (string, error) {
	claims, err := h.verifier.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

// Run owns the client registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.trainerID] == nil {
				h.clients[client.trainerID] = make(map[*Client]bool)
			}
			h.clients[client.trainerID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.trainerID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.trainerID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients[msg.trainerID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer, drop the frame
					h.logger.Warn("dropping ws frame", zap.String("trainer_id", msg.trainerID))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastBooking delivers a booking event to every connection of one
// trainer. Safe to call from any goroutine; never blocks the caller.
func (h *Hub) BroadcastBooking(trainerID string, event *booking.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal booking event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- &outbound{trainerID: trainerID, payload: payload}:
	default:
		h.logger.Warn("ws broadcast queue full, dropping event", zap.String("type", event.Type))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for trainerID, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
		delete(h.clients, trainerID)
	}
}
