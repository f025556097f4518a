package implementation

import (
	"context"

	"studytrack-be/internal/entity"
	"studytrack-be/internal/mapper"
	"studytrack-be/internal/model"
	"studytrack-be/internal/repository/contract"
	"studytrack-be/internal/repository/specification"

	"gorm.io/gorm"
)

type FaqRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FaqMapper
}

func NewFaqRepository(db *gorm.DB) contract.FaqRepository {
	return &FaqRepositoryImpl{
		db:     db,
		mapper: mapper.NewFaqMapper(),
	}
}

func (r *FaqRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FaqRepositoryImpl) Create(ctx context.Context, rule *entity.FaqRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *FaqRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FaqRule, error) {
	var models []*model.FaqRule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FaqRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FaqRule{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
