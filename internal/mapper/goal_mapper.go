package mapper

import (
	"time"

	"studytrack-be/internal/entity"
	"studytrack-be/internal/model"

	"gorm.io/gorm"
)

type GoalMapper struct{}

func NewGoalMapper() *GoalMapper {
	return &GoalMapper{}
}

func (m *GoalMapper) ToEntity(g *model.Goal) *entity.Goal {
	if g == nil {
		return nil
	}

	var deletedAt *time.Time
	if g.DeletedAt.Valid {
		t := g.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	return &entity.Goal{
		Id:        g.Id,
		Title:     g.Title,
		Progress:  g.Progress,
		UserId:    g.UserId,
		CreatedAt: g.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: g.DeletedAt.Valid,
	}
}

func (m *GoalMapper) ToModel(g *entity.Goal) *model.Goal {
	if g == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if g.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *g.DeletedAt, Valid: true}
	} else if g.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	return &model.Goal{
		Id:        g.Id,
		Title:     g.Title,
		Progress:  g.Progress,
		UserId:    g.UserId,
		CreatedAt: g.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *GoalMapper) ToEntities(goals []*model.Goal) []*entity.Goal {
	entities := make([]*entity.Goal, len(goals))
	for i, g := range goals {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
