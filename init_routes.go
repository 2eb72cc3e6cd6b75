// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth:      JWT token doğrulaması
//   - authAdmin: auth + admin yetkisi
package main

import (
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/middleware"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden ÖNCE
// tanımlanmalı. Örnek: "/api/users/me" → "/api/users/{id}" öncesinde,
// yoksa Go router "me" kelimesini bir kullanıcı ID'si olarak yorumlar.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
	uploadDir string,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	adminMw := middleware.NewAdminMiddleware()

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(adminMw.Require(http.HandlerFunc(handler)))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"buscando-amor-eterno"}`))
	})

	// ─── Auth — public endpoint'ler (token gerekmez) ───
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// ─── Auth — protected ───
	mux.Handle("POST /api/auth/change-password", auth(h.Auth.ChangePassword))
	mux.Handle("POST /api/auth/verify", auth(h.Verification.Verify))
	mux.Handle("POST /api/auth/resend-code", auth(h.Verification.ResendCode))

	// ─── Profile ───
	mux.Handle("GET /api/users/me", auth(h.Profile.Me))
	mux.Handle("PATCH /api/users/me", auth(h.Profile.Update))
	mux.Handle("POST /api/users/me/photos", auth(h.Profile.UploadPhoto))
	mux.Handle("DELETE /api/users/me/photos/{id}", auth(h.Profile.DeletePhoto))
	mux.Handle("GET /api/users/{id}", auth(h.Profile.PublicProfile))

	// ─── Discovery ───
	mux.Handle("GET /api/discover", auth(h.Discovery.Discover))

	// ─── Likes & Matches ───
	mux.Handle("POST /api/likes", auth(h.Match.Like))
	mux.Handle("GET /api/matches", auth(h.Match.ListMatches))
	mux.Handle("DELETE /api/matches/{id}", auth(h.Match.Unmatch))

	// ─── Chat ───
	mux.Handle("GET /api/conversations", auth(h.Chat.ListConversations))
	mux.Handle("GET /api/conversations/{id}/messages", auth(h.Chat.ListMessages))
	mux.Handle("POST /api/conversations/{id}/messages", auth(h.Chat.SendMessage))

	// ─── Calls ───
	mux.Handle("POST /api/calls/token", auth(h.Call.Token))
	mux.Handle("GET /api/calls/current", auth(h.Call.Current))

	// ─── Blocks & Reports ───
	mux.Handle("POST /api/blocks", auth(h.Moderation.Block))
	mux.Handle("GET /api/blocks", auth(h.Moderation.ListBlocked))
	mux.Handle("DELETE /api/blocks/{userId}", auth(h.Moderation.Unblock))
	mux.Handle("POST /api/reports", auth(h.Moderation.Report))

	// ─── Admin ───
	mux.Handle("GET /api/admin/reports", authAdmin(h.Admin.ListReports))
	mux.Handle("POST /api/admin/reports/{id}/resolve", authAdmin(h.Admin.ResolveReport))
	mux.Handle("POST /api/admin/users/{id}/suspend", authAdmin(h.Admin.Suspend))
	mux.Handle("POST /api/admin/users/{id}/unsuspend", authAdmin(h.Admin.Unsuspend))
	mux.Handle("GET /api/admin/stats", authAdmin(h.Admin.Stats))
	mux.Handle("GET /api/admin/activity", authAdmin(h.Admin.Activity))

	// ─── WebSocket ───
	// Token query parameter ile gelir — handler içinde doğrulanır.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// ─── Uploaded photos (static) ───
	mux.Handle("GET /api/uploads/", http.StripPrefix("/api/uploads/",
		http.FileServer(http.Dir(uploadDir))))
}
