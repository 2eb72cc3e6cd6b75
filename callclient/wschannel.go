package callclient

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// heartbeatInterval, sunucunun read deadline'ını canlı tutmak için
// heartbeat gönderim aralığı. Sunucu 90 saniye sessizlikte bağlantıyı
// kapatır — 30 saniyelik aralık güvenli pay bırakır.
const heartbeatInterval = 30 * time.Second

// wireEvent, WebSocket üzerinden okunan ham event zarfı.
// Data, op'a göre farklı şekillerde geldiği için RawMessage olarak
// alınır ve gerektiğinde decode edilir.
type wireEvent struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d"`
	Seq  int64           `json:"seq"`
}

// WSChannel, SignalChannel'ın üretim implementasyonu: sunucunun /ws
// endpoint'ine gorilla/websocket ile bağlanır.
//
// Topic, sunucu tarafında access token'dan türetilir — Subscribe'a
// verilen topic yerel kimlikle tutarlılık kontrolü içindir.
type WSChannel struct {
	url   string
	token string

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewWSChannel, constructor.
// url: sunucunun WebSocket endpoint'i (ör: "ws://localhost:8080/ws").
// token: kimliği doğrulanmış kullanıcının access token'ı.
func NewWSChannel(url, token string) *WSChannel {
	return &WSChannel{url: url, token: token}
}

// Subscribe, sunucuya bağlanır ve gelen event'leri handler'a akıtır.
// Bağlantı durumu değişimleri aynı handler'a EventStateChange olarak düşer.
func (c *WSChannel) Subscribe(topic string, handler func(SignalEvent)) (Unsubscribe, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	handler(SignalEvent{Kind: EventStateChange, State: ChannelConnecting})

	conn, _, err := websocket.DefaultDialer.Dial(c.url+"?token="+c.token, nil)
	if err != nil {
		handler(SignalEvent{Kind: EventStateChange, State: ChannelError})
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.mu.Unlock()

	handler(SignalEvent{Kind: EventStateChange, State: ChannelSubscribed})

	done := make(chan struct{})
	go c.readLoop(conn, handler, done)
	go c.heartbeatLoop(conn, done)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			close(done)
			conn.Close()
		})
	}
	return unsubscribe, nil
}

// readLoop, bağlantıdan event okur ve SignalEvent'e çevirip iletir.
// Okuma hatasında kanal durumu handler'a raporlanır ve loop biter —
// reconnect kararı ReconnectingSubscriber'a aittir.
func (c *WSChannel) readLoop(conn *websocket.Conn, handler func(SignalEvent), done chan struct{}) {
	for {
		var event wireEvent
		if err := conn.ReadJSON(&event); err != nil {
			select {
			case <-done:
				// Kasıtlı kapanış — hata değil.
				handler(SignalEvent{Kind: EventStateChange, State: ChannelClosed})
			default:
				handler(SignalEvent{Kind: EventStateChange, State: ChannelError})
			}
			return
		}

		kind, ok := signalKind(event.Op)
		if !ok {
			// Bu kanalın işi sadece arama sinyalleri — ready, mesaj,
			// presence gibi event'ler burada yok sayılır.
			continue
		}

		var signal models.CallSignal
		if err := json.Unmarshal(event.Data, &signal); err != nil {
			log.Printf("[callclient] dropping undecodable %s payload: %v", event.Op, err)
			continue
		}

		handler(SignalEvent{Kind: kind, Signal: signal})
	}
}

// heartbeatLoop, sunucunun read deadline'ını beslemek için periyodik
// heartbeat gönderir. done kapanınca durur.
func (c *WSChannel) heartbeatLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := conn.WriteJSON(ws.Event{Op: ws.OpHeartbeat})
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Send, outbound bir arama sinyali yayınlar.
func (c *WSChannel) Send(op string, signal models.CallSignal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.closed {
		return fmt.Errorf("channel is not connected")
	}
	if err := c.conn.WriteJSON(ws.Event{Op: op, Data: signal}); err != nil {
		return fmt.Errorf("send %s: %w", op, err)
	}
	return nil
}

// signalKind, wire op'unu SignalEvent tag'ine çevirir.
func signalKind(op string) (SignalEventKind, bool) {
	switch op {
	case ws.OpCallInvite:
		return EventInvite, true
	case ws.OpCallAccept:
		return EventAccept, true
	case ws.OpCallReject:
		return EventReject, true
	case ws.OpCallEnd:
		return EventEnd, true
	case ws.OpCallBusy:
		return EventBusy, true
	}
	return "", false
}
