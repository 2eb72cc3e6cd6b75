// Package handlers — ModerationHandler: engelleme ve şikayet endpoint'leri.
//
// Route'lar (hepsi auth gerektirir):
//
//	POST   /api/blocks           → Block
//	DELETE /api/blocks/{userId}  → Unblock
//	GET    /api/blocks           → ListBlocked
//	POST   /api/reports          → Report
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// ModerationHandler, kullanıcı moderasyon endpoint'lerini yöneten struct.
type ModerationHandler struct {
	moderationService services.ModerationService
}

// NewModerationHandler, constructor.
func NewModerationHandler(moderationService services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// Block godoc
// POST /api/blocks
// Body: { "target_id": "..." }
// Hedefi engeller; süren arama varsa kesilir. İdempotent.
func (h *ModerationHandler) Block(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req struct {
		TargetID string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "target_id is required")
		return
	}

	if err := h.moderationService.Block(r.Context(), user.ID, req.TargetID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, map[string]string{"message": "user blocked"})
}

// Unblock godoc
// DELETE /api/blocks/{userId}
func (h *ModerationHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	targetID := r.PathValue("userId")
	if targetID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.moderationService.Unblock(r.Context(), user.ID, targetID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user unblocked"})
}

// ListBlocked godoc
// GET /api/blocks
func (h *ModerationHandler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	blocks, err := h.moderationService.ListBlocked(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, blocks)
}

// Report godoc
// POST /api/reports
// Body: { "target_id": "...", "reason": "...", "details": "..." }
func (h *ModerationHandler) Report(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.moderationService.Report(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, report)
}
