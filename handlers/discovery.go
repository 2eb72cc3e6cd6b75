// Package handlers — DiscoveryHandler: keşfet endpoint'i.
//
// Route:
//
//	GET /api/discover → Discover
//
// Query parametreleri: gender, min_age, max_age, city, limit, offset.
// Parametre gelmezse service makul varsayılanları uygular
// (gender → viewer'ın seeking tercihi).
package handlers

import (
	"net/http"
	"strconv"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// DiscoveryHandler, keşfet endpoint'ini yöneten struct.
type DiscoveryHandler struct {
	discoveryService services.DiscoveryService
}

// NewDiscoveryHandler, constructor.
func NewDiscoveryHandler(discoveryService services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discoveryService: discoveryService}
}

// Discover godoc
// GET /api/discover?gender=female&min_age=25&max_age=40&city=Madrid&limit=20
func (h *DiscoveryHandler) Discover(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	q := r.URL.Query()
	filters := models.DiscoverFilters{
		Gender: models.Gender(q.Get("gender")),
		City:   q.Get("city"),
		MinAge: parseIntParam(q.Get("min_age")),
		MaxAge: parseIntParam(q.Get("max_age")),
		Limit:  parseIntParam(q.Get("limit")),
		Offset: parseIntParam(q.Get("offset")),
	}

	profiles, err := h.discoveryService.Discover(r.Context(), user.ID, filters)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, profiles)
}

// parseIntParam, query parametresini int'e çevirir. Boş veya bozuk
// değer 0 döner — service katmanı 0'ı "filtre yok" olarak yorumlar.
func parseIntParam(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
