// Package middleware — AdminMiddleware: platform admin yetkisi kontrolü.
//
// AuthMiddleware'den SONRA çalışır — context'te user bilgisi mevcuttur.
// User struct'taki IsAdmin alanını kontrol eder. false ise → 403 Forbidden.
//
// Kullanım:
//
//	authMw.Require(adminMw.Require(http.HandlerFunc(adminHandler.Stats)))
package middleware

import (
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/handlers"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
)

// AdminMiddleware, admin yetkisi zorunlu kılan middleware.
type AdminMiddleware struct{}

// NewAdminMiddleware, constructor.
func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// Require, admin yetkisi zorunlu kılan middleware.
// Context'teki User'ın IsAdmin alanı false ise → 403 Forbidden.
func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !user.IsAdmin {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
