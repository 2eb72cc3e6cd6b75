// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Kullanıcı mesaj gönderir → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın BroadcastToUser metodunu çağırır
// 3. Hub, event'i ilgili kullanıcının bağlı client'larına iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "message_create", "call-invite" vb.
// Data: Event'e özgü payload.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// ────────────────────────────────────────────
// Operation sabitleri
// ────────────────────────────────────────────

// Client → Server operasyonları
const (
	OpHeartbeat      = "heartbeat"       // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
	OpTyping         = "typing"          // Kullanıcı bir konuşmada yazıyor
	OpPresenceUpdate = "presence_update" // Durum değişikliği (online/away)
)

// Server → Client operasyonları
const (
	OpReady         = "ready"          // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck  = "heartbeat_ack"  // Heartbeat'e yanıt — "seni duydum"
	OpMessageCreate = "message_create" // Yeni mesaj oluşturuldu
	OpTypingStart   = "typing_start"   // Karşı taraf yazıyor
	OpPresence      = "presence_update"
	OpMatchCreate   = "match_create" // Karşılıklı beğeni — yeni eşleşme
	OpMatchRemove   = "match_remove" // Eşleşme kaldırıldı (unmatch)
)

// Arama signaling operasyonları — hem Client → Server hem Server → Client.
//
// Signaling akışı:
// 1. Caller: call-invite → Server validate + enrich → Receiver: call-invite
// 2. Receiver: call-accept → Server room hazırlar → Caller: call-accept
// 3. İki taraf LiveKit odasına bağlanır (token HTTP endpoint'inden alınır)
// 4. Herhangi biri: call-end → Server cleanup → Diğeri: call-end
//
// Payload her yönde models.CallSignal'dır: {to, from, callId, type, timestamp}.
const (
	OpCallInvite = "call-invite" // Arama başlat / gelen arama bildirimi
	OpCallAccept = "call-accept" // Arama kabul edildi
	OpCallReject = "call-reject" // Arama reddedildi / iptal edildi
	OpCallEnd    = "call-end"    // Arama sonlandırıldı
	OpCallBusy   = "call_busy"   // Karşı taraf başka bir aramada (meşgul)
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
// Frontend online kullanıcı Set'ini bununla doldurur.
type ReadyData struct {
	UserID        string   `json:"user_id"`
	OnlineUserIDs []string `json:"online_user_ids"`
}

// PresenceData, bir kullanıcının online durumu değiştiğinde gönderilen payload.
type PresenceData struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// TypingData, typing event'inin Client → Server payload'ı.
type TypingData struct {
	ConversationID string `json:"conversation_id"`
}

// TypingStartData, typing_start event'inin Server → Client payload'ı.
type TypingStartData struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	ConversationID string `json:"conversation_id"`
}
