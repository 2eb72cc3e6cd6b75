package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// TokenValidator, WebSocket handler'ın JWT doğrulaması için kullandığı interface.
//
// Neden services.AuthService yerine kendi interface'imizi tanımlıyoruz?
// Circular dependency'yi önlemek için:
// - services paketi ws.EventPublisher'ı kullanıyor (event göndermek için)
// - ws paketi services.AuthService'i kullansaydı → ws → services → ws döngüsü oluşurdu
//
// Interface Segregation: handler'ın sadece ValidateAccessToken'a ihtiyacı var.
// main.go'da authService bu interface'i implicit olarak karşılar.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// upgrader, HTTP bağlantısını WebSocket bağlantısına yükseltir.
//
// WebSocket normal HTTP isteği olarak başlar ve "upgrade" ile kalıcı,
// çift yönlü bir bağlantıya dönüşür.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: Production'da domain kontrolü yapılmalı.
	// Şimdilik tüm origin'lere izin veriyoruz (development için).
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
}

// NewHandler, yeni bir WebSocket handler oluşturur.
func NewHandler(hub *Hub, tokenValidator TokenValidator) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// WebSocket bağlantısında HTTP header göndermek zordur (tarayıcı sınırlaması) —
// token URL query parameter'ı olarak gönderilir:
//
//	ws://server/ws?token=JWT_TOKEN
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", claims.UserID, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufferSize),
	}

	// Username cache'ini güncelle (typing broadcast için)
	h.hub.SetUserUsername(claims.UserID, claims.Username)

	h.hub.register <- client

	// Bağlantı kurulduğunda ilk event: ready.
	// Frontend online kullanıcı listesini bununla doldurur.
	client.sendEvent(Event{
		Op: OpReady,
		Data: ReadyData{
			UserID:        claims.UserID,
			OnlineUserIDs: h.hub.GetOnlineUserIDs(),
		},
	})

	// WritePump ayrı goroutine'de, ReadPump mevcut goroutine'de çalışır.
	// ReadPump bağlantı kapanana kadar bloklar — HTTP handler öyle ayakta kalır.
	go client.WritePump()
	client.ReadPump()
}
