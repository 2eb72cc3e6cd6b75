// Package handlers — AdminHandler: platform yönetim endpoint'leri.
//
// Route'lar (auth + admin middleware gerektirir):
//
//	GET  /api/admin/reports               → ListReports
//	POST /api/admin/reports/{id}/resolve  → ResolveReport
//	POST /api/admin/users/{id}/suspend    → Suspend
//	POST /api/admin/users/{id}/unsuspend  → Unsuspend
//	GET  /api/admin/stats                 → Stats
//	GET  /api/admin/activity              → Activity
package handlers

import (
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// AdminHandler, admin endpoint'lerini yöneten struct.
type AdminHandler struct {
	moderationService services.ModerationService
}

// NewAdminHandler, constructor.
func NewAdminHandler(moderationService services.ModerationService) *AdminHandler {
	return &AdminHandler{moderationService: moderationService}
}

// ListReports godoc
// GET /api/admin/reports?status=open&limit=50
// status verilmezse open şikayetler döner.
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := models.ReportStatus(q.Get("status"))
	if status == "" {
		status = models.ReportStatusOpen
	}

	reports, err := h.moderationService.ListReports(r.Context(), status, parseIntParam(q.Get("limit")))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, reports)
}

// ResolveReport godoc
// POST /api/admin/reports/{id}/resolve
// Açık şikayeti resolved yapar. Zaten kapalıysa 404 döner.
func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")
	if reportID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "report id is required")
		return
	}

	if err := h.moderationService.ResolveReport(r.Context(), reportID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "report resolved"})
}

// Suspend godoc
// POST /api/admin/users/{id}/suspend
// Hesabı askıya alır: oturumlar iptal edilir, süren arama kesilir.
func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")
	if targetID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.moderationService.Suspend(r.Context(), targetID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user suspended"})
}

// Unsuspend godoc
// POST /api/admin/users/{id}/unsuspend
func (h *AdminHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")
	if targetID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.moderationService.Unsuspend(r.Context(), targetID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user unsuspended"})
}

// Stats godoc
// GET /api/admin/stats
// Toplam/doğrulanmış/askıdaki kullanıcı sayıları, eşleşme sayısı,
// açık şikayet sayısı ve anlık online sayısı.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.moderationService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Activity godoc
// GET /api/admin/activity?limit=100
// Son aktivite kayıtlarını döner (signup, login, call, report...).
func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.moderationService.RecentActivity(r.Context(), parseIntParam(r.URL.Query().Get("limit")))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, entries)
}
