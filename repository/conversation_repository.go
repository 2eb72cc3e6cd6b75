package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// ConversationRepository, konuşma veritabanı işlemleri için interface.
type ConversationRepository interface {
	// Create, yeni konuşmayı yazar. Match oluşturma ile aynı
	// transaction'da çağrılmalıdır.
	Create(ctx context.Context, conversation *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	// ListByUser, kullanıcının konuşmalarını son mesaja göre sıralı döner.
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	// TouchLastMessage, konuşmanın last_message_at alanını günceller.
	// Her mesaj yazımından sonra çağrılır.
	TouchLastMessage(ctx context.Context, conversationID string) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository, konuşma mesajları için interface.
type MessageRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	// ListByConversation, mesajları yeniden eskiye doğru sayfalı döner.
	// before boş ise en son mesajlardan başlar; dolu ise o mesaj
	// ID'sinden daha eski mesajları döner (cursor pagination).
	ListByConversation(ctx context.Context, conversationID string, before string, limit int) ([]models.ChatMessage, error)
}
