// Package handlers — CallHandler: arama medya endpoint'leri.
//
// Route'lar:
//
//	POST /api/calls/token    → Token
//	GET  /api/calls/current  → Current
//
// Arama sinyalleşmesi (invite/accept/reject/end) HTTP üzerinden değil,
// WS event'leri olarak akar — burada sadece medya token'ı ve reconnect
// sonrası durum sorgusu var.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// CallHandler, arama endpoint'lerini yöneten struct.
type CallHandler struct {
	mediaService services.MediaService
	callService  services.CallService
}

// NewCallHandler, constructor.
func NewCallHandler(mediaService services.MediaService, callService services.CallService) *CallHandler {
	return &CallHandler{
		mediaService: mediaService,
		callService:  callService,
	}
}

// Token godoc
// POST /api/calls/token
// Body: { "call_id": "..." }
// Response: { "token": "eyJ...", "url": "wss://...", "room_name": "call-..." }
//
// Token sadece aramanın accepted/active katılımcısına verilir —
// kontrol MediaService.CallToken içindedir.
func (h *CallHandler) Token(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req struct {
		CallID string `json:"call_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CallID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "call_id is required")
		return
	}

	resp, err := h.mediaService.CallToken(user.ID, user.Username, req.CallID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// Current godoc
// GET /api/calls/current
// Reconnect sonrası frontend bu endpoint ile süren aramasını öğrenir.
// Aktif arama yoksa null döner.
func (h *CallHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	call := h.callService.GetUserCall(user.ID)
	pkg.JSON(w, http.StatusOK, call)
}
