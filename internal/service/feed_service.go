package service

import (
	"context"
	"fmt"
	"time"

	"studytrack-be/internal/pkg/logger"
	"studytrack-be/pkg/events"
	"studytrack-be/pkg/livequery"
	pktNats "studytrack-be/pkg/nats"

	"github.com/google/uuid"
)

// FeedService replays goal events from the bus into this instance's local
// feed, so views here converge with mutations made elsewhere. Events that
// originated on this instance were already published locally by the gateway
// and are skipped.
type FeedService struct {
	subscriber *pktNats.Subscriber
	feed       livequery.Feed
	instanceID string
	log        logger.ILogger
}

func NewFeedService(sub *pktNats.Subscriber, feed livequery.Feed, instanceID string, log logger.ILogger) *FeedService {
	return &FeedService{
		subscriber: sub,
		feed:       feed,
		instanceID: instanceID,
		log:        log,
	}
}

// Start begins listening to the event bus. Each instance carries its own
// durable so every instance sees every event. Without a bus connection the
// service stays idle; local views still converge through the local feed.
func (s *FeedService) Start() {
	if s.subscriber == nil {
		s.log.Warn("FeedService", "No event bus connection, cross-instance feed disabled", nil)
		return
	}

	durable := fmt.Sprintf("goal-feed-%s", s.instanceID)
	err := s.subscriber.Subscribe("events.>", durable, s.handleEvent)
	if err != nil {
		s.log.Error("FeedService", "Failed to start feed subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.log.Info("FeedService", "Feed service started, listening for goal events", nil)
}

func (s *FeedService) handleEvent(ctx context.Context, event events.Event) error {
	if event.EventType() != events.TypeGoalUpserted && event.EventType() != events.TypeGoalRemoved {
		return nil
	}

	payload := event.Payload()

	if origin, _ := payload["origin"].(string); origin == s.instanceID {
		return nil
	}

	ownerID, err := parseUUIDField(payload, "owner_id")
	if err != nil {
		s.log.Warn("FeedService", "Dropping goal event with bad owner_id", map[string]interface{}{"error": err.Error()})
		return nil
	}
	goalID, err := parseUUIDField(payload, "goal_id")
	if err != nil {
		s.log.Warn("FeedService", "Dropping goal event with bad goal_id", map[string]interface{}{"error": err.Error()})
		return nil
	}

	switch event.EventType() {
	case events.TypeGoalUpserted:
		snapshot := livequery.GoalSnapshot{
			Id:      goalID,
			OwnerId: ownerID,
		}
		snapshot.Title, _ = payload["title"].(string)
		if p, ok := payload["progress"].(float64); ok {
			snapshot.Progress = int(p)
		}
		if raw, ok := payload["created_at"].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				snapshot.CreatedAt = t
			}
		}
		return s.feed.Publish(ctx, ownerID, livequery.Upsert(snapshot))

	case events.TypeGoalRemoved:
		return s.feed.Publish(ctx, ownerID, livequery.Remove(goalID))
	}

	return nil
}

func parseUUIDField(payload map[string]interface{}, key string) (uuid.UUID, error) {
	raw, _ := payload[key].(string)
	return uuid.Parse(raw)
}
