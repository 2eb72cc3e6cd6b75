// Package models — Like ve Match domain modelleri.
//
// Eşleşme sistemi iki tablodan oluşur:
// - likes: tek yönlü beğeni kaydı (liker → liked)
// - matches: karşılıklı beğeni oluştuğunda yaratılan kalıcı kayıt
//
// Match, platformun iletişim kapısıdır: mesajlaşma ve arama sadece
// eşleşmiş kullanıcılar arasında mümkündür.
package models

import "time"

// Like, tek yönlü bir beğeniyi temsil eder.
type Like struct {
	ID        string    `json:"id"`
	LikerID   string    `json:"liker_id"`
	LikedID   string    `json:"liked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Match, karşılıklı beğeni sonucu oluşan eşleşmeyi temsil eder.
//
// user1_id < user2_id sıralaması service katmanında sağlanır — aynı iki
// kullanıcı arasında tek match oluşabilir (UNIQUE constraint çift üzerinde).
type Match struct {
	ID             string    `json:"id"`
	User1ID        string    `json:"user1_id"`
	User2ID        string    `json:"user2_id"`
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// OtherUserID, match'in karşı tarafının ID'sini döner.
// userID match'in parçası değilse boş string döner.
func (m *Match) OtherUserID(userID string) string {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return ""
}

// Involves, kullanıcının bu match'in bir tarafı olup olmadığını döner.
func (m *Match) Involves(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// MatchWithProfile, match kaydını karşı tarafın profiliyle birlikte döner.
// Frontend'de match listesi render etmek için kullanılır.
type MatchWithProfile struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	CreatedAt      time.Time     `json:"created_at"`
	Profile        PublicProfile `json:"profile"`
}

// MatchRemove, match_remove WS event payload'ı. Karşı tarafın arayüzü
// eşleşme kartını ve bağlı konuşmayı bununla düşürür.
type MatchRemove struct {
	MatchID        string `json:"match_id"`
	ConversationID string `json:"conversation_id"`
}

// LikeRequest, POST /api/likes payload'ı.
type LikeRequest struct {
	TargetID string `json:"target_id"`
}

// LikeResponse, beğeni sonucu. Matched true ise karşılıklı beğeni
// oluşmuş ve match yaratılmıştır.
type LikeResponse struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}
