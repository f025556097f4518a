package livequery

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Observer receives the full derived list after every applied event. The
// slice is the observer's to keep. Observers must not call back into the
// view; they run under the view lock, which is what makes Close a barrier.
type Observer func(goals []GoalSnapshot)

// CollectionView binds one owner-filtered feed subscription to a private
// DocumentCache and publishes a derived list, sorted by CreatedAt descending,
// to registered observers. Views for different owners share nothing.
type CollectionView struct {
	ownerID uuid.UUID
	cache   *DocumentCache
	sub     Subscription

	mu        sync.Mutex
	observers map[int]Observer
	nextObsID int
	closed    bool

	// Ids touched by feed events before Prime runs. The store snapshot Prime
	// replays is older than those events and must not overwrite them.
	primed  bool
	touched map[uuid.UUID]struct{}
}

// Subscribe establishes a logical subscription for ownerID over the feed.
// The returned view owns its cache exclusively for the subscription's
// lifetime.
func Subscribe(ctx context.Context, feed Feed, ownerID uuid.UUID) (*CollectionView, error) {
	v := &CollectionView{
		ownerID:   ownerID,
		cache:     NewDocumentCache(),
		observers: make(map[int]Observer),
		touched:   make(map[uuid.UUID]struct{}),
	}

	sub, err := feed.Subscribe(ctx, ownerID, v.onEvent)
	if err != nil {
		return nil, err
	}
	v.sub = sub
	return v, nil
}

func (v *CollectionView) OwnerID() uuid.UUID {
	return v.ownerID
}

// Observe registers an observer and immediately delivers the current derived
// list. The returned cancel func deregisters it.
func (v *CollectionView) Observe(fn Observer) (cancel func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return func() {}
	}

	id := v.nextObsID
	v.nextObsID++
	v.observers[id] = fn
	fn(v.deriveLocked())

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.observers, id)
	}
}

// Prime seeds the cache from an initial store query, replayed through the
// same apply path the feed uses, and notifies observers once. Ids already
// touched by a feed event are skipped: the feed state is the newer one.
func (v *CollectionView) Prime(snapshots []GoalSnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	for _, snap := range snapshots {
		if _, ok := v.touched[snap.Id]; ok {
			continue
		}
		v.cache.Apply(Upsert(snap))
	}
	v.primed = true
	v.touched = nil
	v.notifyLocked()
}

// Goals returns the current derived list.
func (v *CollectionView) Goals() []GoalSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deriveLocked()
}

// Close stops the feed subscription and acts as a barrier: once it returns,
// no observer callback is running or will ever run again.
func (v *CollectionView) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.observers = map[int]Observer{}
	sub := v.sub
	v.mu.Unlock()

	// Closing the subscription waits out any in-flight delivery; onEvent
	// checks closed under the lock, so late events become no-ops either way.
	if sub != nil {
		return sub.Close()
	}
	return nil
}

func (v *CollectionView) onEvent(event ChangeEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	if !v.primed {
		v.touched[event.Id] = struct{}{}
	}
	v.cache.Apply(event)
	v.notifyLocked()
}

func (v *CollectionView) notifyLocked() {
	derived := v.deriveLocked()
	for _, fn := range v.observers {
		fn(derived)
	}
}

// deriveLocked recomputes the published ordering. It is idempotent: the same
// cache contents always yield the same ordering (ties on CreatedAt break on
// id so the sort is total).
func (v *CollectionView) deriveLocked() []GoalSnapshot {
	goals := v.cache.Snapshot()
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].Id.String() < goals[j].Id.String()
		}
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
	return goals
}
