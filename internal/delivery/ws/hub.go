package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrHubBusy = errors.New("advisory hub busy")

type envelope struct {
	Type    string           `json:"type"`
	Payload *domain.Advisory `json:"payload,omitempty"`
}

type userMessage struct {
	userID  string
	payload []byte
}

// Hub fans advisories out to the websocket clients of each user.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	broadcast  chan userMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan userMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			return nil
		case client := <-h.register:
			clients, ok := h.clients[client.userID]
			if !ok {
				clients = make(map[*Client]struct{})
				h.clients[client.userID] = clients
			}
			clients[client] = struct{}{}
			h.logger.Debug("websocket client registered", zap.String("user_id", client.userID))
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			for client := range h.clients[message.userID] {
				select {
				case client.send <- message.payload:
				default:
					h.logger.Warn("websocket client send buffer full, removing", zap.String("user_id", client.userID))
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
}

// Push never blocks on slow clients; a full hub queue is reported as an error.
func (h *Hub) Push(ctx context.Context, advisory domain.Advisory) error {
	payload, err := json.Marshal(envelope{Type: "advisory", Payload: &advisory})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- userMessage{userID: advisory.UserID, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrHubBusy
	}
}

// Serve upgrades the request and attaches the connection to userID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := &Client{hub: h, userID: userID, conn: conn, send: make(chan []byte, 64)}
	ready, _ := json.Marshal(envelope{Type: "ready"})
	client.send <- ready
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
