package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: Client'ın heartbeat göndermesi için beklenen maksimum süre.
	// 3 heartbeat kaçırma = 30s × 3 = 90s.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'ın gönderebileceği maksimum mesaj boyutu (byte).
	maxMessageSize = 4096

	// sendBufferSize: Her client'ın send channel'ının buffer boyutu.
	// Buffer doluysa client yavaş demektir — bağlantı kapatılır.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Her bağlantı için iki goroutine çalışır:
// - ReadPump: Client'dan gelen mesajları okur → callback'leri tetikler
// - WritePump: Hub'dan gelen mesajları client'a yazar
//
// gorilla/websocket aynı anda tek okuma ve tek yazma destekler —
// iki ayrı goroutine okuma ve yazmanın birbirini bloklamasını önler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	// send, client'a gönderilecek mesajların buffer'landığı channel.
	send chan []byte
	mu   sync.Mutex // conn.WriteMessage çağrılarını korur
}

// ReadPump, WebSocket bağlantısından gelen mesajları okur ve işler.
// Bağlantı kapanana kadar döngüde kalır; kapandığında Hub'dan çıkış yapar.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// SetReadDeadline: Bu süre içinde mesaj gelmezse Read hata verir.
	// Her heartbeat geldiğinde deadline yenilenir.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for user %s: %v", c.userID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from user %s: %v", c.userID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'dan gelen event'leri türüne göre işler.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		// Heartbeat geldi — deadline'ı yenile ve ack gönder.
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpTyping:
		c.handleTyping(event)

	case OpPresenceUpdate:
		c.handlePresenceUpdate(event)

	// ─── Arama Signaling Event'leri ───
	case OpCallInvite:
		// Invite'ta callId server tarafından üretilir — client göndermez.
		c.handleCallSignal(event, c.hub.onCallInvite, false)
	case OpCallAccept:
		c.handleCallSignal(event, c.hub.onCallAccept, true)
	case OpCallReject:
		c.handleCallSignal(event, c.hub.onCallReject, true)
	case OpCallEnd:
		if c.hub.onCallEnd != nil {
			go c.hub.onCallEnd(c.userID)
		}

	default:
		log.Printf("[ws] unknown op from user %s: %s", c.userID, event.Op)
	}
}

// handleCallSignal, call-invite/call-accept/call-reject event'lerini ortak işler.
// Payload her üçünde de models.CallSignal'dır — parse edip callback'e iletir.
//
// From alanı client'ın beyanına bırakılmaz: server bağlantının sahibi
// olan userID'yi yazar. Kimlik taklidi (spoofing) böylece imkânsızlaşır.
func (c *Client) handleCallSignal(event Event, callback func(string, models.CallSignal), requireCallID bool) {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return
	}

	var signal models.CallSignal
	if err := json.Unmarshal(dataBytes, &signal); err != nil {
		return
	}

	signal.From = c.userID
	if signal.To == "" || !signal.Type.Valid() {
		log.Printf("[ws] invalid call signal from user %s: op=%s", c.userID, event.Op)
		return
	}
	if requireCallID && signal.CallID == "" {
		log.Printf("[ws] call signal missing callId from user %s: op=%s", c.userID, event.Op)
		return
	}

	if callback != nil {
		go callback(c.userID, signal)
	}
}

// handlePresenceUpdate, client'dan gelen presence değişikliğini işler.
//
// Client { op: "presence_update", d: { status: "away" } } gönderdiğinde
// bu fonksiyon çağrılır. DB güncelleme ve broadcast sorumluluğu main'deki
// callback'e aittir (Dependency Inversion).
func (c *Client) handlePresenceUpdate(event Event) {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return
	}

	var data PresenceData
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return
	}

	switch data.Status {
	case string(models.UserStatusOnline), string(models.UserStatusAway):
		// geçerli
	default:
		log.Printf("[ws] invalid presence status from user %s: %s", c.userID, data.Status)
		return
	}

	// go func() ile çağrılır — Hub mutex'i ile deadlock önlenir.
	if c.hub.onPresenceManualUpdate != nil {
		go c.hub.onPresenceManualUpdate(c.userID, data.Status)
	}
}

// handleTyping, typing event'ini işler.
// Konuşmanın karşı tarafına iletim main'deki callback üzerinden yapılır —
// hangi kullanıcının hangi konuşmada olduğunu Hub bilmez.
func (c *Client) handleTyping(event Event) {
	// event.Data tipi `any` — doğrudan cast edilemez.
	// JSON'a çevirip tekrar parse etmek en güvenli yöntem.
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return
	}

	var typing TypingData
	if err := json.Unmarshal(dataBytes, &typing); err != nil {
		return
	}

	if typing.ConversationID == "" {
		return
	}

	if c.hub.onTyping != nil {
		go c.hub.onTyping(c.userID, typing.ConversationID)
	}
}

// sendEvent, client'a tek bir event gönderir.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}

	select {
	case c.send <- data:
	default:
		// Buffer dolu — client muhtemelen donmuş, bağlantıyı kapat
		log.Printf("[ws] send buffer full for user %s, dropping connection", c.userID)
		c.hub.unregister <- c
	}
}

// WritePump, Hub'dan gelen mesajları WebSocket bağlantısına yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı — Hub client'ı çıkardı
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, WebSocket'e mesaj yazar (mutex ile korunur).
// gorilla/websocket conn'a aynı anda birden fazla yazma yasaktır.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
