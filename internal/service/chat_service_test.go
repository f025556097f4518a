package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studytrack-be/internal/dto"
	"studytrack-be/internal/entity"
	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/repository/contract"
	"studytrack-be/internal/repository/memory"
	"studytrack-be/internal/repository/specification"
	"studytrack-be/internal/repository/unitofwork"
	"studytrack-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger satisfies ILogger without output.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// deliverySpy records pushed messages.
type deliverySpy struct {
	messages []store.Message
}

func (d *deliverySpy) SendChat(_ uuid.UUID, msg store.Message) {
	d.messages = append(d.messages, msg)
}

// failingFaqRepo simulates a store outage during the rule load.
type failingFaqRepo struct{}

func (failingFaqRepo) Create(context.Context, *entity.FaqRule) error { return nil }
func (failingFaqRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.FaqRule, error) {
	return nil, errors.New("connection refused")
}
func (failingFaqRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, errors.New("connection refused")
}

type failingUow struct{}

func (failingUow) Begin(context.Context) error             { return nil }
func (failingUow) Commit() error                           { return nil }
func (failingUow) Rollback() error                         { return nil }
func (failingUow) UserRepository() contract.UserRepository { return nil }
func (failingUow) GoalRepository() contract.GoalRepository { return nil }
func (failingUow) FaqRepository() contract.FaqRepository   { return failingFaqRepo{} }

type failingUowFactory struct{}

func (failingUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return failingUow{} }

func seedRules(cache *memory.RuleCache) {
	cache.Put([]*entity.FaqRule{
		{Id: uuid.New(), Question: "deadline", Answer: "Goals don't have deadlines yet.", CreatedAt: time.Now()},
		{Id: uuid.New(), Question: "progress", Answer: "Progress goes from 0 to 100.", CreatedAt: time.Now()},
	})
}

func newTestChatService(spy *deliverySpy) (IChatService, *memory.SessionRepository, *memory.RuleCache) {
	sessionRepo := memory.NewSessionRepository()
	ruleCache := memory.NewRuleCache(time.Hour)
	svc := NewChatService(failingUowFactory{}, sessionRepo, ruleCache, spy, nopLogger{})
	return svc, sessionRepo, ruleCache
}

func TestChatSendMatchesRule(t *testing.T) {
	spy := &deliverySpy{}
	svc, sessionRepo, ruleCache := newTestChatService(spy)
	seedRules(ruleCache)

	userId := uuid.New()
	res, err := svc.Send(context.Background(), userId, &dto.SendChatMessageRequest{
		Text: "What is the DEADLINE?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Goals don't have deadlines yet.", res.Reply.Text)
	assert.Equal(t, store.SenderAssistant, res.Reply.Sender)
	assert.NotEmpty(t, res.SessionId)

	// Both sides of the exchange are in the transcript.
	session, found := sessionRepo.Get(res.SessionId)
	require.True(t, found)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, store.SenderUser, session.Messages[0].Sender)
	assert.Equal(t, store.SenderAssistant, session.Messages[1].Sender)

	// The reply was fanned out to connected devices.
	require.Len(t, spy.messages, 1)
	assert.Equal(t, res.Reply.Text, spy.messages[0].Text)
}

func TestChatSendFallsBack(t *testing.T) {
	spy := &deliverySpy{}
	svc, _, ruleCache := newTestChatService(spy)
	seedRules(ruleCache)

	res, err := svc.Send(context.Background(), uuid.New(), &dto.SendChatMessageRequest{Text: "asdf"})
	require.NoError(t, err)
	assert.Equal(t, "I'm not sure yet, but I'll learn that soon!", res.Reply.Text)
}

func TestChatSendContinuesSession(t *testing.T) {
	spy := &deliverySpy{}
	svc, _, ruleCache := newTestChatService(spy)
	seedRules(ruleCache)

	userId := uuid.New()
	first, err := svc.Send(context.Background(), userId, &dto.SendChatMessageRequest{Text: "progress?"})
	require.NoError(t, err)

	second, err := svc.Send(context.Background(), userId, &dto.SendChatMessageRequest{
		SessionId: first.SessionId,
		Text:      "and the deadline?",
	})
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, second.SessionId)

	history, err := svc.History(context.Background(), userId, first.SessionId)
	require.NoError(t, err)
	assert.Len(t, history.Messages, 4)
}

func TestChatSessionOwnershipEnforced(t *testing.T) {
	spy := &deliverySpy{}
	svc, _, ruleCache := newTestChatService(spy)
	seedRules(ruleCache)

	owner := uuid.New()
	res, err := svc.Send(context.Background(), owner, &dto.SendChatMessageRequest{Text: "progress?"})
	require.NoError(t, err)

	intruder := uuid.New()
	_, err = svc.Send(context.Background(), intruder, &dto.SendChatMessageRequest{
		SessionId: res.SessionId,
		Text:      "hi",
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = svc.History(context.Background(), intruder, res.SessionId)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestChatSendRollsBackOnRuleLoadFailure(t *testing.T) {
	spy := &deliverySpy{}
	svc, sessionRepo, ruleCache := newTestChatService(spy)
	seedRules(ruleCache)

	userId := uuid.New()
	first, err := svc.Send(context.Background(), userId, &dto.SendChatMessageRequest{Text: "progress?"})
	require.NoError(t, err)

	// Empty the cache so the next send hits the failing store.
	*ruleCache = *memory.NewRuleCache(time.Hour)

	_, err = svc.Send(context.Background(), userId, &dto.SendChatMessageRequest{
		SessionId: first.SessionId,
		Text:      "this one fails",
	})
	assert.True(t, errors.Is(err, apperrors.ErrTransport))

	// The optimistic user message was rolled back; the transcript still holds
	// only the first exchange, so a retry cannot duplicate it.
	session, found := sessionRepo.Get(first.SessionId)
	require.True(t, found)
	assert.Len(t, session.Messages, 2)

	// No delivery happened for the failed send.
	assert.Len(t, spy.messages, 1)
}
