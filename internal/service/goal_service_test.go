package service

import (
	"errors"
	"testing"
	"time"

	"studytrack-be/internal/entity"
	"studytrack-be/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestValidateGoalFields(t *testing.T) {
	tests := []struct {
		name     string
		title    *string
		progress *int
		wantErr  bool
	}{
		{name: "valid mid-range progress", title: strPtr("Read chapter 4"), progress: intPtr(40)},
		{name: "progress lower bound", title: strPtr("Start"), progress: intPtr(0)},
		{name: "progress upper bound", title: strPtr("Done"), progress: intPtr(100)},
		{name: "nil fields are untouched", title: nil, progress: nil},
		{name: "progress above range", title: strPtr("Bad"), progress: intPtr(150), wantErr: true},
		{name: "progress below range", title: strPtr("Bad"), progress: intPtr(-1), wantErr: true},
		{name: "empty title", title: strPtr(""), progress: intPtr(10), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGoalFields(tt.title, tt.progress)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSnapshotOf(t *testing.T) {
	now := time.Now()
	goal := &entity.Goal{
		Id:        uuid.New(),
		Title:     "Finish thesis outline",
		Progress:  65,
		UserId:    uuid.New(),
		CreatedAt: now,
	}

	snap := snapshotOf(goal)

	assert.Equal(t, goal.Id, snap.Id)
	assert.Equal(t, goal.UserId, snap.OwnerId)
	assert.Equal(t, goal.Title, snap.Title)
	assert.Equal(t, goal.Progress, snap.Progress)
	assert.Equal(t, now, snap.CreatedAt)
	assert.Nil(t, snap.UpdatedAt)
}
