package contract

import (
	"context"

	"studytrack-be/internal/entity"
	"studytrack-be/internal/repository/specification"
)

type FaqRepository interface {
	Create(ctx context.Context, rule *entity.FaqRule) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FaqRule, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
