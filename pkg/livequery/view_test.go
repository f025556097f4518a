package livequery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listRecorder collects every derived list an observer receives.
type listRecorder struct {
	mu    sync.Mutex
	lists [][]GoalSnapshot
}

func (r *listRecorder) observe(goals []GoalSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, goals)
}

func (r *listRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}

func (r *listRecorder) last() []GoalSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lists) == 0 {
		return nil
	}
	return r.lists[len(r.lists)-1]
}

func ownedSnapshot(ownerID uuid.UUID, title string, progress int, createdAt time.Time) GoalSnapshot {
	return GoalSnapshot{
		Id:        uuid.New(),
		OwnerId:   ownerID,
		Title:     title,
		Progress:  progress,
		CreatedAt: createdAt,
	}
}

func TestViewReceivesFeedEvents(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	ownerID := uuid.New()
	view, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)
	defer view.Close()

	rec := &listRecorder{}
	view.Observe(rec.observe)

	// Registration delivers the (empty) current list immediately.
	assert.Equal(t, 1, rec.count())
	assert.Empty(t, rec.last())

	snap := ownedSnapshot(ownerID, "Read chapter 1", 20, time.Now())
	require.NoError(t, feed.Publish(context.Background(), ownerID, Upsert(snap)))

	assert.Eventually(t, func() bool {
		last := rec.last()
		return len(last) == 1 && last[0].Id == snap.Id
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, feed.Publish(context.Background(), ownerID, Remove(snap.Id)))

	assert.Eventually(t, func() bool {
		return len(rec.last()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestViewOrdering(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	ownerID := uuid.New()
	view, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)
	defer view.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := ownedSnapshot(ownerID, "oldest", 0, base)
	middle := ownedSnapshot(ownerID, "middle", 50, base.Add(time.Hour))
	newest := ownedSnapshot(ownerID, "newest", 100, base.Add(2*time.Hour))

	// Prime out of order; the derived list must not depend on arrival order.
	view.Prime([]GoalSnapshot{middle, newest, oldest})

	goals := view.Goals()
	require.Len(t, goals, 3)
	assert.Equal(t, "newest", goals[0].Title)
	assert.Equal(t, "middle", goals[1].Title)
	assert.Equal(t, "oldest", goals[2].Title)

	// Progress bounds survive the round trip untouched.
	assert.Equal(t, 100, goals[0].Progress)
	assert.Equal(t, 0, goals[2].Progress)
}

func TestViewOrderingTieBreak(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	ownerID := uuid.New()
	view, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)
	defer view.Close()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := ownedSnapshot(ownerID, "a", 0, at)
	b := ownedSnapshot(ownerID, "b", 0, at)

	view.Prime([]GoalSnapshot{a, b})
	first := view.Goals()

	view2, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)
	defer view2.Close()

	view2.Prime([]GoalSnapshot{b, a})
	second := view2.Goals()

	// Equal timestamps still derive the same total order everywhere.
	require.Len(t, first, 2)
	assert.Equal(t, first[0].Id, second[0].Id)
	assert.Equal(t, first[1].Id, second[1].Id)
}

func TestViewsAreIndependentPerOwner(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	alice := uuid.New()
	bob := uuid.New()

	aliceView, err := Subscribe(context.Background(), feed, alice)
	require.NoError(t, err)
	defer aliceView.Close()

	bobView, err := Subscribe(context.Background(), feed, bob)
	require.NoError(t, err)
	defer bobView.Close()

	snap := ownedSnapshot(alice, "Alice's goal", 10, time.Now())
	require.NoError(t, feed.Publish(context.Background(), alice, Upsert(snap)))

	assert.Eventually(t, func() bool {
		return len(aliceView.Goals()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Empty(t, bobView.Goals())
}

func TestCloseIsABarrier(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	ownerID := uuid.New()
	view, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)

	rec := &listRecorder{}
	view.Observe(rec.observe)

	snap := ownedSnapshot(ownerID, "goal", 10, time.Now())
	require.NoError(t, feed.Publish(context.Background(), ownerID, Upsert(snap)))

	assert.Eventually(t, func() bool {
		return len(rec.last()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, view.Close())
	seen := rec.count()

	// Events published after Close must never reach the observer.
	feed.Publish(context.Background(), ownerID, Upsert(ownedSnapshot(ownerID, "late", 1, time.Now())))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, seen, rec.count())

	// Close is idempotent.
	assert.NoError(t, view.Close())
}

func TestObserveCancelStopsDelivery(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	ownerID := uuid.New()
	view, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)
	defer view.Close()

	rec := &listRecorder{}
	cancel := view.Observe(rec.observe)
	cancel()
	seen := rec.count()

	require.NoError(t, feed.Publish(context.Background(), ownerID, Upsert(ownedSnapshot(ownerID, "goal", 1, time.Now()))))

	assert.Eventually(t, func() bool {
		return len(view.Goals()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, seen, rec.count())
}

func TestPrimeDoesNotOverwriteFeedEvents(t *testing.T) {
	feed := NewGoChannelFeed()
	defer feed.Close()

	ownerID := uuid.New()
	view, err := Subscribe(context.Background(), feed, ownerID)
	require.NoError(t, err)
	defer view.Close()

	updated := ownedSnapshot(ownerID, "Read chapter 2", 80, time.Now())
	removed := ownedSnapshot(ownerID, "Old goal", 10, time.Now().Add(-time.Hour))

	// Events land between Subscribe and Prime.
	require.NoError(t, feed.Publish(context.Background(), ownerID, Upsert(updated)))
	require.NoError(t, feed.Publish(context.Background(), ownerID, Remove(removed.Id)))

	assert.Eventually(t, func() bool {
		goals := view.Goals()
		return len(goals) == 1 && goals[0].Progress == 80
	}, time.Second, 5*time.Millisecond)

	// The store snapshot is older than both events: it still carries the
	// pre-update progress and the since-removed row, plus one unseen goal.
	stale := updated
	stale.Progress = 50
	unseen := ownedSnapshot(ownerID, "Write summary", 0, time.Now().Add(-time.Minute))
	view.Prime([]GoalSnapshot{stale, removed, unseen})

	goals := view.Goals()
	require.Len(t, goals, 2)
	byID := map[uuid.UUID]GoalSnapshot{}
	for _, g := range goals {
		byID[g.Id] = g
	}
	assert.Equal(t, 80, byID[updated.Id].Progress)
	assert.Equal(t, "Write summary", byID[unseen.Id].Title)
	assert.NotContains(t, byID, removed.Id)

	// After the first Prime the feed is the only writer again.
	later := ownedSnapshot(ownerID, "Late goal", 5, time.Now())
	require.NoError(t, feed.Publish(context.Background(), ownerID, Upsert(later)))
	assert.Eventually(t, func() bool {
		return len(view.Goals()) == 3
	}, time.Second, 5*time.Millisecond)
}
