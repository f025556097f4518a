package mapper

import (
	"studytrack-be/internal/entity"
	"studytrack-be/internal/model"
)

type FaqMapper struct{}

func NewFaqMapper() *FaqMapper {
	return &FaqMapper{}
}

func (m *FaqMapper) ToEntity(r *model.FaqRule) *entity.FaqRule {
	if r == nil {
		return nil
	}
	return &entity.FaqRule{
		Id:        r.Id,
		Question:  r.Question,
		Answer:    r.Answer,
		CreatedAt: r.CreatedAt,
	}
}

func (m *FaqMapper) ToEntities(rules []*model.FaqRule) []*entity.FaqRule {
	entities := make([]*entity.FaqRule, len(rules))
	for i, r := range rules {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *FaqMapper) ToModel(r *entity.FaqRule) *model.FaqRule {
	if r == nil {
		return nil
	}
	return &model.FaqRule{
		Id:        r.Id,
		Question:  r.Question,
		Answer:    r.Answer,
		CreatedAt: r.CreatedAt,
	}
}
