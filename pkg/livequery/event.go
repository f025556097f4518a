package livequery

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventUpsert EventType = "upsert"
	EventRemove EventType = "remove"
)

// GoalSnapshot is the document shape mirrored into a view's cache. It is a
// value type on purpose: caches and derived lists hand out copies, never
// aliases into shared state.
type GoalSnapshot struct {
	Id        uuid.UUID  `json:"id"`
	OwnerId   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	Progress  int        `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ChangeEvent is one document-level event from the change feed. Snapshot is
// set for upserts and nil for removes.
type ChangeEvent struct {
	Type     EventType     `json:"type"`
	Id       uuid.UUID     `json:"id"`
	Snapshot *GoalSnapshot `json:"snapshot,omitempty"`
}

func Upsert(snapshot GoalSnapshot) ChangeEvent {
	return ChangeEvent{Type: EventUpsert, Id: snapshot.Id, Snapshot: &snapshot}
}

func Remove(id uuid.UUID) ChangeEvent {
	return ChangeEvent{Type: EventRemove, Id: id}
}
