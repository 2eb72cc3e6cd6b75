// Package handlers — MatchHandler: beğeni ve eşleşme endpoint'leri.
//
// Route'lar:
//
//	POST   /api/likes          → Like
//	GET    /api/matches        → ListMatches
//	DELETE /api/matches/{id}   → Unmatch
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// MatchHandler, eşleşme endpoint'lerini yöneten struct.
type MatchHandler struct {
	matchService services.MatchService
}

// NewMatchHandler, constructor.
func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// Like godoc
// POST /api/likes
// Body: { "target_id": "..." }
// Response: { "matched": true, "match_id": "..." } — karşılıklı beğeni
// oluştuysa matched true döner ve her iki tarafa WS bildirimi gider.
func (h *MatchHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "target_id is required")
		return
	}

	result, err := h.matchService.Like(r.Context(), user.ID, req.TargetID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}

// ListMatches godoc
// GET /api/matches
// Kullanıcının eşleşmelerini karşı taraf profiliyle döner.
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, matches)
}

// Unmatch godoc
// DELETE /api/matches/{id}
// Eşleşmeyi kaldırır — conversation ve mesaj geçmişi de silinir.
func (h *MatchHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	matchID := r.PathValue("id")
	if matchID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "match id is required")
		return
	}

	if err := h.matchService.Unmatch(r.Context(), user.ID, matchID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "unmatched"})
}
