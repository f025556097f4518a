package livequery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testSnapshot(id uuid.UUID, title string, progress int) GoalSnapshot {
	return GoalSnapshot{
		Id:        id,
		OwnerId:   uuid.New(),
		Title:     title,
		Progress:  progress,
		CreatedAt: time.Now(),
	}
}

func TestDocumentCacheUpsert(t *testing.T) {
	cache := NewDocumentCache()
	id := uuid.New()

	cache.Apply(Upsert(testSnapshot(id, "Read chapter 1", 10)))
	assert.Equal(t, 1, cache.Len())

	// Later upsert for the same id wins regardless of content.
	cache.Apply(Upsert(testSnapshot(id, "Read chapter 1", 80)))
	assert.Equal(t, 1, cache.Len())

	snaps := cache.Snapshot()
	assert.Len(t, snaps, 1)
	assert.Equal(t, 80, snaps[0].Progress)
}

func TestDocumentCacheRemove(t *testing.T) {
	cache := NewDocumentCache()
	id := uuid.New()
	other := uuid.New()

	cache.Apply(Upsert(testSnapshot(id, "Goal A", 0)))
	cache.Apply(Upsert(testSnapshot(other, "Goal B", 0)))

	cache.Apply(Remove(id))
	assert.Equal(t, 1, cache.Len())

	// Removing again is a no-op, not an error.
	cache.Apply(Remove(id))
	assert.Equal(t, 1, cache.Len())

	// Removing an id the cache never saw is also a no-op.
	cache.Apply(Remove(uuid.New()))
	assert.Equal(t, 1, cache.Len())

	snaps := cache.Snapshot()
	assert.Equal(t, other, snaps[0].Id)
}

func TestDocumentCacheUpsertWithoutSnapshotIsIgnored(t *testing.T) {
	cache := NewDocumentCache()

	cache.Apply(ChangeEvent{Type: EventUpsert, Id: uuid.New(), Snapshot: nil})
	assert.Equal(t, 0, cache.Len())
}

func TestDocumentCacheSnapshotIsACopy(t *testing.T) {
	cache := NewDocumentCache()
	id := uuid.New()
	cache.Apply(Upsert(testSnapshot(id, "Goal", 50)))

	snaps := cache.Snapshot()
	snaps[0].Progress = 99

	again := cache.Snapshot()
	assert.Equal(t, 50, again[0].Progress)
}
