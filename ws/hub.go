package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// EventPublisher, service katmanının WebSocket event'leri göndermek için
// kullandığı interface.
//
// Dependency Inversion: Service'ler Hub'ın concrete struct'ına değil,
// bu interface'e bağımlıdır. Böylece:
// 1. Service test edilirken mock EventPublisher kullanılabilir
// 2. Hub implementasyonu değişse bile service kodu etkilenmez
type EventPublisher interface {
	BroadcastToUser(userID string, event Event)
	IsOnline(userID string) bool
	GetOnlineUserIDs() []string
	CountOnline() int
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır (Observer pattern).
//
// Hub.Run() goroutine'i register/unregister channel'larından `select` ile okur:
// - register channel'dan yeni client gelirse → clients map'e ekle
// - unregister channel'dan client gelirse → map'ten çıkar
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla tab'ı olabilir).
	// Go'da set yoktur — map[*Client]bool kullanılır, bool her zaman true.
	clients map[string]map[*Client]bool

	// mu: clients map'ini koruyan read-write mutex.
	// Okuma ağırlıklı erişim (broadcast, online kontrolleri) RLock ile paralel çalışır.
	mu sync.RWMutex

	// register/unregister: Client giriş/çıkış sinyalleri.
	register   chan *Client
	unregister chan *Client

	// seq: Her outbound event'e verilen artan sayaç.
	// atomic.Int64 — birden fazla goroutine güvenle artırabilir.
	seq atomic.Int64

	// usernames: userID → username cache (typing broadcast için).
	usernames map[string]string
	userMu    sync.RWMutex

	// Callback'ler — main package'da register edilir (Dependency Inversion).
	// Hub service katmanını bilmez; event geldiğinde callback'i tetikler,
	// DB ve iş mantığı callback'in içinde (main wire-up'ında) yaşar.
	onUserFirstConnect     func(userID string)
	onUserFullyDisconnect  func(userID string)
	onPresenceManualUpdate func(userID string, status string)
	onTyping               func(userID string, conversationID string)
	onCallInvite           func(callerID string, signal models.CallSignal)
	onCallAccept           func(userID string, signal models.CallSignal)
	onCallReject           func(userID string, signal models.CallSignal)
	onCallEnd              func(userID string)
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		usernames:  make(map[string]string),
	}
}

// ─── Callback Setter'ları ───

func (h *Hub) OnUserFirstConnect(fn func(userID string))               { h.onUserFirstConnect = fn }
func (h *Hub) OnUserFullyDisconnected(fn func(userID string))          { h.onUserFullyDisconnect = fn }
func (h *Hub) OnPresenceManualUpdate(fn func(userID, status string))   { h.onPresenceManualUpdate = fn }
func (h *Hub) OnTyping(fn func(userID, conversationID string))         { h.onTyping = fn }
func (h *Hub) OnCallInvite(fn func(string, models.CallSignal))         { h.onCallInvite = fn }
func (h *Hub) OnCallAccept(fn func(string, models.CallSignal))         { h.onCallAccept = fn }
func (h *Hub) OnCallReject(fn func(string, models.CallSignal))         { h.onCallReject = fn }
func (h *Hub) OnCallEnd(fn func(userID string))                        { h.onCallEnd = fn }

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, yeni bir client'ı Hub'a ekler.
// Kullanıcının ilk bağlantısıysa first-connect callback'i tetiklenir.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()

	first := false
	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
		first = true
	}
	h.clients[client.userID][client] = true
	total := len(h.clients[client.userID])

	h.mu.Unlock()

	log.Printf("[ws] client connected: user=%s (total connections for user: %d)",
		client.userID, total)

	// Callback `go` ile çağrılır — callback içinde BroadcastToUser yapılırsa
	// Hub mutex'i ile deadlock oluşmaz.
	if first && h.onUserFirstConnect != nil {
		go h.onUserFirstConnect(client.userID)
	}
}

// removeClient, bir client'ı Hub'dan çıkarır ve send channel'ını kapatır.
// Kullanıcının son bağlantısıysa fully-disconnected callback'i tetiklenir.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()

	last := false
	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.clients, client.userID)
				last = true
			}
		}
	}

	h.mu.Unlock()

	if last {
		log.Printf("[ws] user fully disconnected: %s", client.userID)
		if h.onUserFullyDisconnect != nil {
			go h.onUserFullyDisconnect(client.userID)
		}
	}
}

// BroadcastToUser, belirli bir kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal user event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Buffer dolu — bu client yavaş, kapat
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// IsOnline, kullanıcının en az bir aktif bağlantısı olup olmadığını döner.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// GetOnlineUserIDs, bağlı olan tüm kullanıcı ID'lerini döner.
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// CountOnline, bağlı kullanıcı sayısını döner (admin stats için).
func (h *Hub) CountOnline() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetUserUsername, kullanıcı bağlandığında username cache'ini günceller.
func (h *Hub) SetUserUsername(userID, username string) {
	h.userMu.Lock()
	defer h.userMu.Unlock()
	h.usernames[userID] = username
}

// getUserUsername, userID'den username döner (typing broadcast için).
func (h *Hub) getUserUsername(userID string) string {
	h.userMu.RLock()
	defer h.userMu.RUnlock()
	return h.usernames[userID]
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	log.Println("[ws] hub shut down, all connections closed")
}
