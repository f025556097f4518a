package model

import (
	"time"

	"github.com/google/uuid"
)

type FaqRule struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Question  string    `gorm:"type:varchar(255);not null"`
	Answer    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FaqRule) TableName() string {
	return "faq_rules"
}
