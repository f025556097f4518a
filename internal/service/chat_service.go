package service

import (
	"context"

	"studytrack-be/internal/dto"
	"studytrack-be/internal/entity"
	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/pkg/logger"
	"studytrack-be/internal/repository/memory"
	"studytrack-be/internal/repository/specification"
	"studytrack-be/internal/repository/unitofwork"
	"studytrack-be/pkg/responder"
	"studytrack-be/pkg/store"

	"github.com/google/uuid"
)

// AssistantDelivery pushes assistant replies to a user's other connected
// devices. Implemented by the WebSocket hub.
type AssistantDelivery interface {
	SendChat(userID uuid.UUID, message store.Message)
}

type IChatService interface {
	Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error)
	History(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.ChatHistoryResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	sessionRepo *memory.SessionRepository
	ruleCache   *memory.RuleCache
	delivery    AssistantDelivery
	log         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	ruleCache *memory.RuleCache,
	delivery AssistantDelivery,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		sessionRepo: sessionRepo,
		ruleCache:   ruleCache,
		delivery:    delivery,
		log:         log,
	}
}

func (s *chatService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error) {
	session, err := s.resolveSession(userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	// Phase one: the user message enters the transcript before the rules
	// load, so the client sees it immediately.
	session.Append(store.SenderUser, req.Text)
	s.sessionRepo.Save(session)

	rules, err := s.loadRules(ctx)
	if err != nil {
		// Phase two failed: roll the optimistic append back so a retry does
		// not duplicate the message.
		session.Messages = session.Messages[:len(session.Messages)-1]
		s.sessionRepo.Save(session)
		return nil, err
	}

	reply := responder.Respond(req.Text, rules)
	assistantMsg := store.Message{Text: reply, Sender: store.SenderAssistant}
	session.Messages = append(session.Messages, assistantMsg)
	s.sessionRepo.Save(session)

	if s.delivery != nil {
		s.delivery.SendChat(userId, assistantMsg)
	}

	return &dto.SendChatMessageResponse{
		SessionId: session.ID,
		Reply:     dto.ChatMessageResponse{Text: assistantMsg.Text, Sender: assistantMsg.Sender},
	}, nil
}

func (s *chatService) History(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.ChatHistoryResponse, error) {
	session, found := s.sessionRepo.Get(sessionId)
	if !found || session.UserID != userId.String() {
		return nil, apperrors.NotFound("chat session %s not found", sessionId)
	}

	res := &dto.ChatHistoryResponse{
		SessionId: session.ID,
		Messages:  make([]dto.ChatMessageResponse, len(session.Messages)),
	}
	for i, msg := range session.Messages {
		res.Messages[i] = dto.ChatMessageResponse{Text: msg.Text, Sender: msg.Sender}
	}
	return res, nil
}

func (s *chatService) resolveSession(userId uuid.UUID, sessionId string) (*store.Session, error) {
	if sessionId == "" {
		return &store.Session{
			ID:     uuid.New().String(),
			UserID: userId.String(),
		}, nil
	}

	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, apperrors.NotFound("chat session %s not found", sessionId)
	}
	if session.UserID != userId.String() {
		return nil, apperrors.NotFound("chat session %s not found", sessionId)
	}
	return session, nil
}

// loadRules returns the FAQ ruleset in created_at order. The set is loaded
// once and cached; it is read-only for the lifetime of a chat session.
func (s *chatService) loadRules(ctx context.Context) ([]responder.Rule, error) {
	if cached, found := s.ruleCache.Get(); found {
		return toResponderRules(cached), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rules, err := uow.FaqRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, apperrors.Transport("failed to load FAQ rules", err)
	}

	s.ruleCache.Put(rules)
	return toResponderRules(rules), nil
}

func toResponderRules(rules []*entity.FaqRule) []responder.Rule {
	out := make([]responder.Rule, len(rules))
	for i, r := range rules {
		out[i] = responder.Rule{Question: r.Question, Answer: r.Answer}
	}
	return out
}
