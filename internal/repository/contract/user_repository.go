package contract

import (
	"context"

	"studytrack-be/internal/entity"
	"studytrack-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error
	FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
}
