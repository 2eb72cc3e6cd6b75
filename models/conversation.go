package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Conversation, bir match'e bağlı 1-1 mesajlaşma kanalını temsil eder.
//
// user1_id < user2_id sıralaması match ile aynıdır. Conversation match
// oluştuğunda transactional olarak yaratılır — match var, conversation
// yok durumu oluşamaz.
type Conversation struct {
	ID            string     `json:"id"`
	MatchID       string     `json:"match_id"`
	User1ID       string     `json:"user1_id"`
	User2ID       string     `json:"user2_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at"` // Nullable — henüz mesaj yoksa nil
}

// Involves, kullanıcının konuşmanın bir tarafı olup olmadığını döner.
func (c *Conversation) Involves(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherUserID, konuşmanın karşı tarafının ID'sini döner.
func (c *Conversation) OtherUserID(userID string) string {
	switch userID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	}
	return ""
}

// ConversationWithProfile, konuşma + karşı taraf profili.
// Konuşma listesi render etmek için kullanılır.
type ConversationWithProfile struct {
	ID            string        `json:"id"`
	MatchID       string        `json:"match_id"`
	CreatedAt     time.Time     `json:"created_at"`
	LastMessageAt *time.Time    `json:"last_message_at"`
	Profile       PublicProfile `json:"profile"`
}

// ChatMessage, bir konuşma mesajını temsil eder.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateMessageRequest, yeni mesaj gönderme isteği.
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// Validate, CreateMessageRequest kontrolü.
func (r *CreateMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("message content is required")
	}
	if contentLen > 2000 {
		return fmt.Errorf("message content must be at most 2000 characters")
	}
	return nil
}
