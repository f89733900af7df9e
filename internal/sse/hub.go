package sse

import (
	"encoding/json"
	"sync"

	"github.com/70nanon/officemate/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Topics a client can subscribe to.
const (
	TopicSeats = "seats"
	TopicMap   = "map"
)

// Event types delivered to clients. Seat events always carry the full
// collection: consumers replace their cache with each snapshot instead of
// patching it.
const (
	EventSeatsSnapshot = "seats_snapshot"
	EventMapUpdated    = "map_updated"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Topics map[string]bool
	Send   chan []byte
}

type TopicMessage struct {
	Topic string
	Event Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *TopicMessage
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *TopicMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, err := json.Marshal(msg.Event)
			if err != nil {
				logrus.WithError(err).Error("failed to marshal sse event")
				h.mu.RUnlock()
				continue
			}
			for _, client := range h.clients {
				if client.Topics[msg.Topic] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Subscribe(clientID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Topics[topic] = true
	}
}

func (h *Hub) Unsubscribe(clientID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Topics, topic)
	}
}

// BroadcastSeatsSnapshot pushes the complete seat collection to every
// client subscribed to the seats topic.
func (h *Hub) BroadcastSeatsSnapshot(seats []models.Seat) {
	if seats == nil {
		seats = []models.Seat{}
	}
	h.broadcast <- &TopicMessage{
		Topic: TopicSeats,
		Event: Event{Type: EventSeatsSnapshot, Data: seats},
	}
}

func (h *Hub) BroadcastMapUpdate(m *models.OfficeMap) {
	h.broadcast <- &TopicMessage{
		Topic: TopicMap,
		Event: Event{Type: EventMapUpdated, Data: m},
	}
}
