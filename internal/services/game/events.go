package game

import (
	"context"
	"time"

	"github.com/KirkDiggler/bingo/internal/models"
)

// EventKind names something that happened in a room
type EventKind string

const (
	EventRoomCreated       EventKind = "room_created"
	EventRoomClosed        EventKind = "room_closed"
	EventPlayerJoined      EventKind = "player_joined"
	EventPlayerLeft        EventKind = "player_left"
	EventPlayerKicked      EventKind = "player_kicked"
	EventGameStarting      EventKind = "game_starting"
	EventGameStarted       EventKind = "game_started"
	EventStartCancelled    EventKind = "start_cancelled"
	EventNumberDrawn       EventKind = "number_drawn"
	EventSkillPhaseStarted EventKind = "skill_phase_started"
	EventSkillUsed         EventKind = "skill_used"
	EventSkillSkipped      EventKind = "skill_skipped"
	EventSkillPhaseEnded   EventKind = "skill_phase_ended"
	EventBingo             EventKind = "bingo"
	EventGameFinished      EventKind = "game_finished"
)

// Event carries the snapshot stored by the transition that caused it
type Event struct {
	Kind   EventKind
	GameID string

	// Game is the state after the change. For room_closed it is the last state.
	Game *models.Game

	ActorID  string
	TargetID string
	Number   int
	Skill    models.SkillType

	At time.Time
}

// Publishers fans every event out to each publisher in order
type Publishers []Publisher

func (p Publishers) Publish(ctx context.Context, event *Event) {
	for _, publisher := range p {
		if publisher != nil {
			publisher.Publish(ctx, event)
		}
	}
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, event *Event)

func (f PublisherFunc) Publish(ctx context.Context, event *Event) {
	f(ctx, event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *Event) {}
