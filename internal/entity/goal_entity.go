package entity

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	Progress  int // 0-100, checked at the gateway before any write
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
