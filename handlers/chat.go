// Package handlers — ChatHandler: konuşma ve mesaj endpoint'leri.
//
// Route'lar:
//
//	GET  /api/conversations                    → ListConversations
//	GET  /api/conversations/{id}/messages      → ListMessages
//	POST /api/conversations/{id}/messages      → SendMessage
//
// Typing bildirimi HTTP üzerinden değil, WS event'i olarak gelir
// (init_callbacks.go → ChatService.NotifyTyping).
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// ChatHandler, mesajlaşma endpoint'lerini yöneten struct.
type ChatHandler struct {
	chatService services.ChatService
}

// NewChatHandler, constructor.
func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListConversations godoc
// GET /api/conversations
// Son mesaj zamanına göre sıralı konuşma listesi döner.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conversations, err := h.chatService.ListConversations(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, conversations)
}

// ListMessages godoc
// GET /api/conversations/{id}/messages?before=<messageId>&limit=50
// Cursor pagination: before verilirse o mesajdan eski mesajlar döner.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conversationID := r.PathValue("id")
	if conversationID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "conversation id is required")
		return
	}

	q := r.URL.Query()
	messages, err := h.chatService.ListMessages(r.Context(), user.ID, conversationID,
		q.Get("before"), parseIntParam(q.Get("limit")))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, messages)
}

// SendMessage godoc
// POST /api/conversations/{id}/messages
// Body: { "content": "..." }
// Mesaj kaydedilir ve her iki tarafa WS ile iletilir.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conversationID := r.PathValue("id")
	if conversationID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "conversation id is required")
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chatService.SendMessage(r.Context(), user.ID, conversationID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, message)
}
