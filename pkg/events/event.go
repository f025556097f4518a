package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried over the bus.
const (
	TypeGoalUpserted = "GOAL_UPSERTED"
	TypeGoalRemoved  = "GOAL_REMOVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "GOAL_UPSERTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// GoalUpserted builds the bus event mirroring one goal upsert. The payload
// carries the full snapshot so remote instances can replay it into their
// local feed without a store read.
func GoalUpserted(ownerID, goalID uuid.UUID, title string, progress int, createdAt time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeGoalUpserted,
		Data: map[string]interface{}{
			"owner_id":   ownerID.String(),
			"goal_id":    goalID.String(),
			"title":      title,
			"progress":   progress,
			"created_at": createdAt.Format(time.RFC3339Nano),
		},
		OccurredAt: time.Now(),
	}
}

func GoalRemoved(ownerID, goalID uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: TypeGoalRemoved,
		Data: map[string]interface{}{
			"owner_id": ownerID.String(),
			"goal_id":  goalID.String(),
		},
		OccurredAt: time.Now(),
	}
}
