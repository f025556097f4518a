package integration

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"studytrack-be/internal/dto"
	"studytrack-be/internal/entity"
	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/repository/unitofwork"
	"studytrack-be/internal/service"
	"studytrack-be/pkg/database"
	"studytrack-be/pkg/livequery"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func requireDB(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	return unitofwork.NewRepositoryFactory(gormDB)
}

func seedUser(t *testing.T, uowFactory unitofwork.RepositoryFactory) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        "goal-crud-" + uuid.New().String() + "@example.com",
		PasswordHash: "not-a-real-hash",
		FullName:     "Goal CRUD Test User",
		Status:       entity.UserStatusActive,
	}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	return user.Id
}

func TestGoalCrudFlow(t *testing.T) {
	uowFactory := requireDB(t)
	userId := seedUser(t, uowFactory)

	feed := livequery.NewGoChannelFeed()
	defer feed.Close()

	svc := service.NewGoalService(uowFactory, feed, nil, uuid.New().String(), nopLogger{})
	ctx := context.Background()

	// A live view over the same feed sees every mutation below.
	view, err := livequery.Subscribe(ctx, feed, userId)
	require.NoError(t, err)
	defer view.Close()

	// Create
	created, err := svc.Create(ctx, userId, &dto.CreateGoalRequest{Title: "Integration goal", Progress: 30})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		goals := view.Goals()
		return len(goals) == 1 && goals[0].Progress == 30
	}, 2*time.Second, 10*time.Millisecond)

	// Show
	shown, err := svc.Show(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Integration goal", shown.Title)

	// Update (partial)
	progress := 75
	_, err = svc.Update(ctx, userId, &dto.UpdateGoalRequest{Id: created.Id, Progress: &progress})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		goals := view.Goals()
		return len(goals) == 1 && goals[0].Progress == 75 && goals[0].Title == "Integration goal"
	}, 2*time.Second, 10*time.Millisecond)

	// Another user cannot see or touch the goal.
	stranger := uuid.New()
	_, err = svc.Show(ctx, stranger, created.Id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	err = svc.Delete(ctx, stranger, created.Id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Delete
	require.NoError(t, svc.Delete(ctx, userId, created.Id))

	assert.Eventually(t, func() bool {
		return len(view.Goals()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Deleting again reports not found.
	err = svc.Delete(ctx, userId, created.Id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGoalValidationRejectedBeforeStore(t *testing.T) {
	uowFactory := requireDB(t)
	userId := seedUser(t, uowFactory)

	feed := livequery.NewGoChannelFeed()
	defer feed.Close()

	svc := service.NewGoalService(uowFactory, feed, nil, uuid.New().String(), nopLogger{})
	ctx := context.Background()

	_, err := svc.Create(ctx, userId, &dto.CreateGoalRequest{Title: "Bad", Progress: 150})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Create(ctx, userId, &dto.CreateGoalRequest{Title: "", Progress: 10})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	list, err := svc.List(ctx, userId)
	require.NoError(t, err)
	assert.Empty(t, list.Goals)
}
