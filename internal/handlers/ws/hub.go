package ws

import (
	"context"
	"sync"

	"github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/KirkDiggler/bingo/internal/services/messaging"
	"github.com/sirupsen/logrus"
)

// HubConfig holds configuration for the hub
type HubConfig struct {
	Messaging messaging.Service
	Logger    logrus.FieldLogger
}

// Hub tracks connections per room and pushes every game event to them
type Hub struct {
	messaging messaging.Service
	log       logrus.FieldLogger

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

// NewHub creates a new hub
func NewHub(cfg *HubConfig) (*Hub, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Hub{
		messaging: cfg.Messaging,
		log:       log.WithField("component", "ws_hub"),
		rooms:     make(map[string]map[*client]struct{}),
	}, nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.gameID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.gameID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.gameID)
	}
}

func (h *Hub) clients(gameID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[gameID]
	out := make([]*client, 0, len(room))
	for c := range room {
		out = append(out, c)
	}
	return out
}

// Connections returns how many sockets are open for a room
func (h *Hub) Connections(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

// Publish sends the event and a fresh snapshot to every socket in the room
func (h *Hub) Publish(ctx context.Context, event *game.Event) {
	recipients := h.clients(event.GameID)
	if len(recipients) == 0 {
		return
	}

	text, err := h.messaging.GetEventMessage(ctx, &messaging.GetEventMessageInput{Event: event})
	if err != nil {
		h.log.WithError(err).WithField("game_id", event.GameID).Warn("failed to describe event")
		return
	}

	dto := &EventDTO{
		Kind:     string(event.Kind),
		Message:  text.Message,
		ActorID:  event.ActorID,
		TargetID: event.TargetID,
		Number:   event.Number,
		Skill:    string(event.Skill),
		At:       event.At,
	}

	for _, c := range recipients {
		c.enqueue(&ServerMessage{
			Type:  MsgEvent,
			Event: dto,
			State: newSnapshot(event.Game, c.playerID),
		})

		if removes(event, c.playerID) {
			h.unregister(c)
			c.close()
		}
	}
}

// removes reports whether the event ends this player's place in the room
func removes(event *game.Event, playerID string) bool {
	switch event.Kind {
	case game.EventRoomClosed:
		return true
	case game.EventPlayerLeft:
		return event.ActorID == playerID
	case game.EventPlayerKicked:
		return event.TargetID == playerID
	}
	return false
}

// Close drops every connection
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for gameID, room := range h.rooms {
		for c := range room {
			c.close()
		}
		delete(h.rooms, gameID)
	}
}
