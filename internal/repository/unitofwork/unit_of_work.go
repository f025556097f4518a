package unitofwork

import (
	"context"

	"studytrack-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	GoalRepository() contract.GoalRepository
	FaqRepository() contract.FaqRepository
}
