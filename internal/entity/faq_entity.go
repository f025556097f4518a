package entity

import (
	"time"

	"github.com/google/uuid"
)

// FaqRule is read-only for the lifetime of a chat session. CreatedAt pins
// the iteration order the responder's first-match contract depends on.
type FaqRule struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Question  string
	Answer    string
	CreatedAt time.Time
}
