package service

import (
	"context"
	"time"

	"studytrack-be/internal/dto"
	"studytrack-be/internal/entity"
	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/pkg/logger"
	"studytrack-be/internal/repository/specification"
	"studytrack-be/internal/repository/unitofwork"
	"studytrack-be/pkg/events"
	"studytrack-be/pkg/livequery"
	pktNats "studytrack-be/pkg/nats"

	"github.com/google/uuid"
)

// IGoalService is the mutation gateway for goal documents. Every operation
// is a single logical store call with no automatic retry; deduplication of
// repeated submissions is the caller's responsibility (the clients disable
// re-submission while a call is pending). New state becomes visible to
// views only through the change feed, never synchronously.
type IGoalService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateGoalRequest) (*dto.CreateGoalResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.GoalResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateGoalRequest) (*dto.UpdateGoalResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID) (*dto.ListGoalsResponse, error)

	// Snapshots feeds a freshly opened view its initial state.
	Snapshots(ctx context.Context, ownerID uuid.UUID) ([]livequery.GoalSnapshot, error)
}

type goalService struct {
	uowFactory     unitofwork.RepositoryFactory
	feed           livequery.Feed
	eventPublisher *pktNats.Publisher
	instanceID     string
	log            logger.ILogger
}

func NewGoalService(
	uowFactory unitofwork.RepositoryFactory,
	feed livequery.Feed,
	eventPublisher *pktNats.Publisher,
	instanceID string,
	log logger.ILogger,
) IGoalService {
	return &goalService{
		uowFactory:     uowFactory,
		feed:           feed,
		eventPublisher: eventPublisher,
		instanceID:     instanceID,
		log:            log,
	}
}

func validateGoalFields(title *string, progress *int) error {
	if title != nil && *title == "" {
		return apperrors.Validation("title must not be empty")
	}
	if progress != nil && (*progress < 0 || *progress > 100) {
		return apperrors.Validation("progress must be between 0 and 100, got %d", *progress)
	}
	return nil
}

func snapshotOf(goal *entity.Goal) livequery.GoalSnapshot {
	return livequery.GoalSnapshot{
		Id:        goal.Id,
		OwnerId:   goal.UserId,
		Title:     goal.Title,
		Progress:  goal.Progress,
		CreatedAt: goal.CreatedAt,
		UpdatedAt: goal.UpdatedAt,
	}
}

func (s *goalService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateGoalRequest) (*dto.CreateGoalResponse, error) {
	// Validation happens before any store call.
	if err := validateGoalFields(&req.Title, &req.Progress); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	goal := entity.Goal{
		Id:        uuid.New(),
		Title:     req.Title,
		Progress:  req.Progress,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.GoalRepository().Create(ctx, &goal); err != nil {
		return nil, apperrors.Transport("failed to create goal", err)
	}

	s.publishUpsert(ctx, &goal)

	return &dto.CreateGoalResponse{Id: goal.Id}, nil
}

func (s *goalService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.GoalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	goal, err := uow.GoalRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperrors.Transport("failed to load goal", err)
	}
	if goal == nil {
		return nil, apperrors.NotFound("goal %s not found", id)
	}

	res := toGoalResponse(goal)
	return &res, nil
}

func (s *goalService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateGoalRequest) (*dto.UpdateGoalResponse, error) {
	if err := validateGoalFields(req.Title, req.Progress); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	goal, err := uow.GoalRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperrors.Transport("failed to load goal", err)
	}
	if goal == nil {
		return nil, apperrors.NotFound("goal %s not found", req.Id)
	}

	// Partial update: only provided fields change.
	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Progress != nil {
		goal.Progress = *req.Progress
	}
	now := time.Now()
	goal.UpdatedAt = &now

	if err := uow.GoalRepository().Update(ctx, goal); err != nil {
		return nil, apperrors.Transport("failed to update goal", err)
	}

	s.publishUpsert(ctx, goal)

	return &dto.UpdateGoalResponse{Id: goal.Id}, nil
}

func (s *goalService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	goal, err := uow.GoalRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return apperrors.Transport("failed to load goal", err)
	}
	if goal == nil {
		// Also covers the double-tap case: deleting an already-deleted id
		// reports not found rather than succeeding silently.
		return apperrors.NotFound("goal %s not found", id)
	}

	if err := uow.GoalRepository().Delete(ctx, id); err != nil {
		return apperrors.Transport("failed to delete goal", err)
	}

	s.publishRemove(ctx, userId, id)

	return nil
}

func (s *goalService) List(ctx context.Context, userId uuid.UUID) (*dto.ListGoalsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	goals, err := uow.GoalRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperrors.Transport("failed to list goals", err)
	}

	res := dto.ListGoalsResponse{Goals: make([]dto.GoalResponse, len(goals))}
	for i, goal := range goals {
		res.Goals[i] = toGoalResponse(goal)
	}
	return &res, nil
}

func (s *goalService) Snapshots(ctx context.Context, ownerID uuid.UUID) ([]livequery.GoalSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	goals, err := uow.GoalRepository().FindAll(ctx,
		specification.OwnedBy{UserID: ownerID},
	)
	if err != nil {
		return nil, apperrors.Transport("failed to load goal snapshots", err)
	}

	snapshots := make([]livequery.GoalSnapshot, len(goals))
	for i, goal := range goals {
		snapshots[i] = snapshotOf(goal)
	}
	return snapshots, nil
}

// publishUpsert pushes the committed state into the local feed and mirrors
// it to the bus for other instances. Feed delivery failing must not fail the
// mutation: the store already holds the truth and views reconcile on resume.
func (s *goalService) publishUpsert(ctx context.Context, goal *entity.Goal) {
	if err := s.feed.Publish(ctx, goal.UserId, livequery.Upsert(snapshotOf(goal))); err != nil {
		s.log.Warn("GoalService", "Failed to publish upsert to local feed", map[string]interface{}{
			"goal_id": goal.Id, "error": err.Error(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.GoalUpserted(goal.UserId, goal.Id, goal.Title, goal.Progress, goal.CreatedAt)
		evt.Data["origin"] = s.instanceID
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("GoalService", "Failed to publish upsert to bus", map[string]interface{}{
				"goal_id": goal.Id, "error": err.Error(),
			})
		}
	}
}

func (s *goalService) publishRemove(ctx context.Context, ownerID, goalID uuid.UUID) {
	if err := s.feed.Publish(ctx, ownerID, livequery.Remove(goalID)); err != nil {
		s.log.Warn("GoalService", "Failed to publish remove to local feed", map[string]interface{}{
			"goal_id": goalID, "error": err.Error(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.GoalRemoved(ownerID, goalID)
		evt.Data["origin"] = s.instanceID
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("GoalService", "Failed to publish remove to bus", map[string]interface{}{
				"goal_id": goalID, "error": err.Error(),
			})
		}
	}
}

func toGoalResponse(goal *entity.Goal) dto.GoalResponse {
	return dto.GoalResponse{
		Id:        goal.Id,
		Title:     goal.Title,
		Progress:  goal.Progress,
		CreatedAt: goal.CreatedAt,
		UpdatedAt: goal.UpdatedAt,
	}
}
