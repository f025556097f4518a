package livequery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Handler processes one change event. Handlers for a single subscription are
// invoked sequentially in delivery order; no reordering or coalescing.
type Handler func(event ChangeEvent)

// Subscription is a live feed registration. Close releases the underlying
// feed resource; events published after Close are not delivered.
type Subscription interface {
	Close() error
}

// Feed is the change-feed primitive: an ordered push stream of document
// events scoped to one owner's query.
type Feed interface {
	Publish(ctx context.Context, ownerID uuid.UUID, event ChangeEvent) error
	Subscribe(ctx context.Context, ownerID uuid.UUID, handler Handler) (Subscription, error)
}

func topicForOwner(ownerID uuid.UUID) string {
	return fmt.Sprintf("goals.%s", ownerID)
}

// GoChannelFeed is the in-process Feed backed by a Watermill GoChannel
// pub/sub. One topic per owner keeps subscriptions for different owners
// fully independent.
type GoChannelFeed struct {
	pubSub *gochannel.GoChannel
}

func NewGoChannelFeed() *GoChannelFeed {
	return &GoChannelFeed{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NopLogger{},
		),
	}
}

func (f *GoChannelFeed) Publish(ctx context.Context, ownerID uuid.UUID, event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return f.pubSub.Publish(topicForOwner(ownerID), msg)
}

func (f *GoChannelFeed) Subscribe(ctx context.Context, ownerID uuid.UUID, handler Handler) (Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	messages, err := f.pubSub.Subscribe(subCtx, topicForOwner(ownerID))
	if err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			var event ChangeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				// Malformed frames are acked so they are never redelivered.
				msg.Ack()
				continue
			}
			handler(event)
			msg.Ack()
		}
	}()

	return &goChannelSubscription{cancel: cancel, done: done}, nil
}

// Close closes the underlying pub/sub and every open subscription.
func (f *GoChannelFeed) Close() error {
	return f.pubSub.Close()
}

type goChannelSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops delivery and waits for the pump goroutine to drain, so no
// handler invocation survives it.
func (s *goChannelSubscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}
