// Package feed pushes post events to connected websocket clients.
package feed

import (
	"context"
	"encoding/json"

	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/observability/metrics"
)

type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish fans an event out to every connected client. Marshal failures are
// logged and dropped; the feed is best-effort.
func (h *Hub) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Errorf("feed: failed to marshal event: %v", err)
		return
	}

	metrics.FeedEventsBroadcast.WithLabelValues(event.Type).Inc()

	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("feed: broadcast queue full, dropping event")
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			metrics.FeedConnectionsActive.Set(0)
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.FeedConnectionsActive.Set(float64(len(h.clients)))
			h.log.WithFields(client.ctx, logger.Fields{
				"user_id": client.userID,
				"action":  "feed_connect",
			}).Info("feed client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				metrics.FeedConnectionsActive.Set(float64(len(h.clients)))
				h.log.WithFields(client.ctx, logger.Fields{
					"user_id": client.userID,
					"action":  "feed_disconnect",
				}).Info("feed client disconnected")
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow consumer: drop the connection rather than block
					// the whole feed.
					delete(h.clients, client)
					client.Close()
					metrics.FeedConnectionsActive.Set(float64(len(h.clients)))
					h.log.Warnf("feed: dropping slow client user_id=%s", client.userID)
				}
			}
		}
	}
}
