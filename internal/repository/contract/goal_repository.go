package contract

import (
	"context"

	"studytrack-be/internal/entity"
	"studytrack-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *entity.Goal) error
	Update(ctx context.Context, goal *entity.Goal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Goal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Goal, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
