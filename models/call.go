// Package models — Call domain modeli.
//
// 1-on-1 arama sistemi:
// - "ringing": Arama başlatıldı, karşı taraf henüz yanıtlamadı
// - "active":  Arama kabul edildi, LiveKit medya oturumu kurulabilir
// - "ended":   Arama sonlandırıldı
//
// Tüm arama state'i ephemeral (in-memory) — DB'ye kaydedilmez.
// Sunucu yeniden başlatılırsa aktif aramalar temizlenir; kalıcı iz
// sadece activity log'a düşen satırdır.
package models

import (
	"fmt"
	"time"
)

// CallType, arama türünü temsil eden typed constant.
type CallType string

const (
	CallTypeAudio CallType = "audio"
	CallTypeVideo CallType = "video"
)

// Valid, bilinen bir arama türü olup olmadığını döner.
func (t CallType) Valid() bool {
	return t == CallTypeAudio || t == CallTypeVideo
}

// CallStatus, arama durumunu temsil eden typed constant.
type CallStatus string

const (
	CallStatusRinging CallStatus = "ringing"
	CallStatusActive  CallStatus = "active"
	CallStatusEnded   CallStatus = "ended"
)

// Call, sunucu tarafında takip edilen bir aramayı temsil eder.
type Call struct {
	ID        string     `json:"id"`
	CallerID  string     `json:"caller_id"`
	CalleeID  string     `json:"callee_id"`
	CallType  CallType   `json:"call_type"`
	RoomName  string     `json:"room_name"`
	Status    CallStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// OtherParty, aramanın karşı tarafının ID'sini döner.
// userID aramanın parçası değilse boş string döner.
func (c *Call) OtherParty(userID string) string {
	switch userID {
	case c.CallerID:
		return c.CalleeID
	case c.CalleeID:
		return c.CallerID
	}
	return ""
}

// Involves, kullanıcının bu aramanın bir tarafı olup olmadığını döner.
func (c *Call) Involves(userID string) bool {
	return c.CallerID == userID || c.CalleeID == userID
}

// CallRoomName, iki katılımcının LiveKit oda adını türetir.
//
// Oda adı sıralı ID çiftinin pure fonksiyonudur — her iki taraf da
// negotiation yapmadan aynı oda adını hesaplar:
// CallRoomName(a, b) == CallRoomName(b, a).
func CallRoomName(userA, userB string) string {
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("call-%s-%s", lo, hi)
}

// CallSignal, signaling kanalı üzerinden taşınan wire payload'ı.
//
// JSON alan adları wire format'ın parçasıdır — web/mobil client'lar
// aynı şekli bekler, değiştirilemez:
//
//	{ "to": ..., "from": ..., "callId": ..., "type": "audio"|"video", "timestamp": epoch-ms }
type CallSignal struct {
	To        string   `json:"to"`
	From      string   `json:"from"`
	CallID    string   `json:"callId"`
	Type      CallType `json:"type"`
	Timestamp int64    `json:"timestamp"` // Epoch millisecond
	Reason    string   `json:"reason,omitempty"`
}

// Validate, wire'dan gelen bir signal'ın zorunlu alanlarını kontrol eder.
// Eksik alanlı payload translator katmanında sessizce drop edilir —
// buradaki error log'lamak isteyen caller'lar içindir.
func (s *CallSignal) Validate() error {
	if s.To == "" || s.From == "" {
		return fmt.Errorf("signal requires both to and from")
	}
	if s.CallID == "" {
		return fmt.Errorf("signal requires callId")
	}
	if !s.Type.Valid() {
		return fmt.Errorf("unknown call type %q", s.Type)
	}
	return nil
}

// CallTokenResponse, POST /api/calls/token yanıtı.
// Client bu token ile LiveKit'e bağlanıp medya oturumunu kurar.
type CallTokenResponse struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	RoomName string `json:"room_name"`
}
