package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/70nanon/officemate/internal/middleware"
	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type SSEHandler struct {
	hub         HubInterface
	seatService SeatServiceInterface
	mapService  MapServiceInterface
}

func NewSSEHandler(hub HubInterface, seatService SeatServiceInterface, mapService MapServiceInterface) *SSEHandler {
	return &SSEHandler{
		hub:         hub,
		seatService: seatService,
		mapService:  mapService,
	}
}

func validTopic(topic string) bool {
	return topic == sse.TopicSeats || topic == sse.TopicMap
}

// parseTopics reads the comma separated topics query parameter. An
// empty parameter subscribes to everything.
func parseTopics(raw string) (map[string]bool, error) {
	topics := make(map[string]bool)
	if raw == "" {
		topics[sse.TopicSeats] = true
		topics[sse.TopicMap] = true
		return topics, nil
	}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !validTopic(t) {
			return nil, fmt.Errorf("unknown topic: %s", t)
		}
		topics[t] = true
	}
	return topics, nil
}

func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	topics, err := parseTopics(c.QueryParam("topics"))
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Topics: topics,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	// New subscribers get the current state up front so they render
	// without waiting for the next mutation.
	ctx := context.Background()
	if topics[sse.TopicSeats] {
		seats, err := h.seatService.List(ctx)
		if err != nil {
			// A stream without its opening snapshot would look live
			// while serving stale state. Close it and let the client
			// reconnect.
			logrus.WithError(err).Error("Failed to load seats for new subscriber")
			return
		}
		if seats == nil {
			seats = []models.Seat{}
		}
		event := sse.Event{Type: sse.EventSeatsSnapshot, Data: seats}
		if err := sseCtx.SendJSON(event, "message", ""); err != nil {
			return
		}
	}
	if topics[sse.TopicMap] {
		m, err := h.mapService.Get(ctx, models.DefaultMapID)
		if err == nil {
			event := sse.Event{Type: sse.EventMapUpdated, Data: m}
			if err := sseCtx.SendJSON(event, "message", ""); err != nil {
				return
			}
		} else if !errors.Is(err, services.ErrMapNotFound) {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	topic := c.Param("topic")
	if !validTopic(topic) {
		c.BadRequest("unknown topic: " + topic)
		return
	}

	h.hub.Subscribe(clientID, topic)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("subscribed to %s", topic),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	topic := c.Param("topic")
	if !validTopic(topic) {
		c.BadRequest("unknown topic: " + topic)
		return
	}

	h.hub.Unsubscribe(clientID, topic)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("unsubscribed from %s", topic),
	})
}
