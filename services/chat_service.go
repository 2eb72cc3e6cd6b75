// Package services — ChatService: eşleşmeler arası mesajlaşma.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// ChatService, mesajlaşma operasyonları için interface.
type ChatService interface {
	// ListConversations, kullanıcının konuşmalarını karşı taraf
	// profiliyle birlikte döner.
	ListConversations(ctx context.Context, userID string) ([]models.ConversationWithProfile, error)

	// ListMessages, konuşma geçmişini cursor pagination ile döner.
	ListMessages(ctx context.Context, userID, conversationID, before string, limit int) ([]models.ChatMessage, error)

	// SendMessage, konuşmaya mesaj yazar ve karşı tarafa WS ile iletir.
	SendMessage(ctx context.Context, senderID, conversationID string, req *models.CreateMessageRequest) (*models.ChatMessage, error)

	// NotifyTyping, typing sinyalini konuşmanın karşı tarafına iletir.
	// WS callback'inden çağrılır — hata dönmez, best-effort.
	NotifyTyping(userID, conversationID string)
}

type chatService struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	photoRepo        repository.PhotoRepository
	blocks           BlockChecker
	hub              ws.EventPublisher
}

func NewChatService(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	photoRepo repository.PhotoRepository,
	blocks BlockChecker,
	hub ws.EventPublisher,
) ChatService {
	return &chatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		photoRepo:        photoRepo,
		blocks:           blocks,
		hub:              hub,
	}
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]models.ConversationWithProfile, error) {
	conversations, err := s.conversationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ConversationWithProfile, 0, len(conversations))
	for i := range conversations {
		otherID := conversations[i].OtherUserID(userID)

		other, getErr := s.userRepo.GetByID(ctx, otherID)
		if getErr != nil {
			continue // Karşı taraf silinmiş
		}

		profile := other.ToPublicProfile()
		if photos, photoErr := s.photoRepo.ListByUser(ctx, otherID); photoErr == nil {
			profile.Photos = photos
		}

		result = append(result, models.ConversationWithProfile{
			ID:            conversations[i].ID,
			MatchID:       conversations[i].MatchID,
			CreatedAt:     conversations[i].CreatedAt,
			LastMessageAt: conversations[i].LastMessageAt,
			Profile:       profile,
		})
	}

	return result, nil
}

func (s *chatService) ListMessages(ctx context.Context, userID, conversationID, before string, limit int) ([]models.ChatMessage, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.Involves(userID) {
		return nil, fmt.Errorf("%w: not part of this conversation", pkg.ErrForbidden)
	}

	return s.messageRepo.ListByConversation(ctx, conversationID, before, limit)
}

func (s *chatService) SendMessage(ctx context.Context, senderID, conversationID string, req *models.CreateMessageRequest) (*models.ChatMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.Involves(senderID) {
		return nil, fmt.Errorf("%w: not part of this conversation", pkg.ErrForbidden)
	}

	otherID := conversation.OtherUserID(senderID)

	// Engelleme mesajı keser — konuşma kaydı silinmez ama yazılamaz
	blocked, err := s.blocks.IsBlockedEither(ctx, senderID, otherID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, fmt.Errorf("%w: cannot message this user", pkg.ErrForbidden)
	}

	message := &models.ChatMessage{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        req.Content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.conversationRepo.TouchLastMessage(ctx, conversationID); err != nil {
		log.Printf("[chat] failed to touch conversation %s: %v", conversationID, err)
	}

	// Karşı tarafa WS ile ilet. Gönderene de gönderilir — diğer
	// tab'ları senkron kalır.
	s.hub.BroadcastToUser(otherID, ws.Event{Op: ws.OpMessageCreate, Data: message})
	s.hub.BroadcastToUser(senderID, ws.Event{Op: ws.OpMessageCreate, Data: message})

	return message, nil
}

func (s *chatService) NotifyTyping(userID, conversationID string) {
	ctx := context.Background()

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil || !conversation.Involves(userID) {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return
	}

	s.hub.BroadcastToUser(conversation.OtherUserID(userID), ws.Event{
		Op: ws.OpTypingStart,
		Data: ws.TypingStartData{
			UserID:         userID,
			Username:       user.Username,
			ConversationID: conversationID,
		},
	})
}
