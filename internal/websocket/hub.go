package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"studytrack-be/internal/pkg/logger"
	"studytrack-be/pkg/livequery"
	"studytrack-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SnapshotLoader supplies the initial state for a freshly opened view.
// Implemented by the goal service.
type SnapshotLoader interface {
	Snapshots(ctx context.Context, ownerID uuid.UUID) ([]livequery.GoalSnapshot, error)
}

// Hub tracks connected clients per user and owns one CollectionView per
// user with at least one device online. The view's derived list is pushed
// to every local device on every change-feed event; Redis bridges direct
// sends (chat replies) to devices on other instances. Goal-list frames are
// never bridged; each instance converges through its own feed.
type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// One live view per user with an open connection on this instance.
	views map[uuid.UUID]*livequery.CollectionView

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb    *redis.Client
	feed   livequery.Feed
	loader SnapshotLoader
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, feed livequery.Feed, loader SnapshotLoader, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		views:      make(map[uuid.UUID]*livequery.CollectionView),
		rdb:        rdb,
		feed:       feed,
		loader:     loader,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			first := len(h.clients[client.UserID]) == 1
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

			if first {
				h.openView(client.UserID)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			var last bool
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					last = true
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()

			if last {
				h.closeView(client.UserID)
			}
		}
	}
}

// openView subscribes a view for the user and primes it from the store.
// Must not hold h.mu: the observer fires during Observe and Prime and takes
// the read lock itself.
func (h *Hub) openView(userID uuid.UUID) {
	view, err := livequery.Subscribe(context.Background(), h.feed, userID)
	if err != nil {
		h.logger.Error("Hub", "Failed to open live view", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return
	}

	view.Observe(func(goals []livequery.GoalSnapshot) {
		h.deliverLocal(userID, goalListFrame(goals))
	})

	h.mu.Lock()
	h.views[userID] = view
	h.mu.Unlock()

	if h.loader != nil {
		snapshots, err := h.loader.Snapshots(context.Background(), userID)
		if err != nil {
			h.logger.Warn("Hub", "Failed to prime live view", map[string]interface{}{"user_id": userID, "error": err.Error()})
			return
		}
		view.Prime(snapshots)
	}
}

// closeView releases the user's feed subscription. Close is a barrier: no
// frame for this view is delivered after it returns.
func (h *Hub) closeView(userID uuid.UUID) {
	h.mu.Lock()
	view, ok := h.views[userID]
	delete(h.views, userID)
	h.mu.Unlock()

	if ok {
		if err := view.Close(); err != nil {
			h.logger.Warn("Hub", "Failed to close live view", map[string]interface{}{"user_id": userID, "error": err.Error()})
		}
	}
}

// SendChat pushes an assistant reply to all of the user's devices, local
// and remote (AssistantDelivery interface implementation).
func (h *Hub) SendChat(userID uuid.UUID, message store.Message) {
	data := chatFrame(message)

	h.deliverLocal(userID, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer: drop rather than block the hub. A goal-list
			// frame is re-derived on the next feed event; a chat frame is
			// gone, the client refetches history on reconnect.
			h.logger.Warn("Hub", "Client Send buffer full, dropping frame", map[string]interface{}{"user_id": userID})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "cluster_events"; each delivers a message
	// only if the target user has a device connected locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.deliverLocal(uid, payload.Message)
	}
}

func goalListFrame(goals []livequery.GoalSnapshot) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "goal_list",
		"data": goals,
	})
	return data
}

func chatFrame(message store.Message) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "chat_message",
		"data": message,
	})
	return data
}
