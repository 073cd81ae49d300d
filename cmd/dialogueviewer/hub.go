package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"medi-response-service/internal/models"
)

// ViewerEvent is what browsers receive for every consumed message.
type ViewerEvent struct {
	EventType string `json:"eventType"`
	SessionID string `json:"sessionId"`
	TurnID    string `json:"turnId"`
	Timestamp int64  `json:"timestamp"`
	Emotion   string `json:"emotion,omitempty"`
	Doctor    string `json:"doctor,omitempty"`
	Response  string `json:"response,omitempty"`
	Raw       string `json:"raw,omitempty"`
	Kept      int    `json:"kept,omitempty"`
}

// decodeEvent turns a Kafka payload into a ViewerEvent. eventType comes from
// the message header; an empty header falls back to the payload field.
func decodeEvent(eventType string, payload []byte) (ViewerEvent, error) {
	if eventType == "" {
		var probe struct {
			EventType string `json:"eventType"`
		}
		if err := json.Unmarshal(payload, &probe); err != nil {
			return ViewerEvent{}, err
		}
		eventType = probe.EventType
	}

	switch eventType {
	case models.EventGenerationRaw:
		var e models.GenerationRaw
		if err := json.Unmarshal(payload, &e); err != nil {
			return ViewerEvent{}, err
		}
		return ViewerEvent{
			EventType: e.EventType,
			SessionID: e.SessionID,
			TurnID:    e.TurnID,
			Timestamp: e.Timestamp,
			Raw:       e.Raw,
		}, nil
	case models.EventResponseFinal:
		var e models.ResponseFinal
		if err := json.Unmarshal(payload, &e); err != nil {
			return ViewerEvent{}, err
		}
		return ViewerEvent{
			EventType: e.EventType,
			SessionID: e.SessionID,
			TurnID:    e.TurnID,
			Timestamp: e.Timestamp,
			Emotion:   e.Emotion,
			Doctor:    e.Doctor,
			Response:  e.Response,
			Kept:      e.Kept,
		}, nil
	default:
		return ViewerEvent{}, fmt.Errorf("unknown event type %q", eventType)
	}
}

// Hub manages WebSocket connections
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan ViewerEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan ViewerEvent, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("clients", n).Msg("Client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("clients", n).Msg("Client disconnected")

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Warn().Err(err).Msg("Write error")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) stop() { close(h.done) }

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev
	},
}

func wsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("WebSocket upgrade error")
			return
		}
		select {
		case hub.register <- conn:
		case <-hub.done:
			conn.Close()
			return
		}

		// Keep connection alive, handle disconnects
		go func() {
			defer func() {
				select {
				case hub.unregister <- conn:
				case <-hub.done:
				}
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}
}
