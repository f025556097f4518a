package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateGoalRequest struct {
	Title    string `json:"title" validate:"required"`
	Progress int    `json:"progress"`
}

type CreateGoalResponse struct {
	Id uuid.UUID `json:"id"`
}

// UpdateGoalRequest is a partial update: nil fields are left untouched.
type UpdateGoalRequest struct {
	Id       uuid.UUID
	Title    *string `json:"title"`
	Progress *int    `json:"progress"`
}

type UpdateGoalResponse struct {
	Id uuid.UUID `json:"id"`
}

type GoalResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Progress  int        `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals"`
}
