// Package main — Handler katmanı başlatma.
package main

import (
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/handlers"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// Handlers, tüm HTTP handler instance'larını tutan container struct.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Verification *handlers.VerificationHandler
	Profile      *handlers.ProfileHandler
	Discovery    *handlers.DiscoveryHandler
	Match        *handlers.MatchHandler
	Chat         *handlers.ChatHandler
	Call         *handlers.CallHandler
	Moderation   *handlers.ModerationHandler
	Admin        *handlers.AdminHandler
	WS           *ws.Handler
}

// initHandlers, service katmanından HTTP handler'ları oluşturur.
func initHandlers(svcs *Services, hub *ws.Hub) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(svcs.Auth),
		Verification: handlers.NewVerificationHandler(svcs.Verification),
		Profile:      handlers.NewProfileHandler(svcs.Profile),
		Discovery:    handlers.NewDiscoveryHandler(svcs.Discovery),
		Match:        handlers.NewMatchHandler(svcs.Match),
		Chat:         handlers.NewChatHandler(svcs.Chat),
		Call:         handlers.NewCallHandler(svcs.Media, svcs.Call),
		Moderation:   handlers.NewModerationHandler(svcs.Moderation),
		Admin:        handlers.NewAdminHandler(svcs.Moderation),
		WS:           ws.NewHandler(hub, svcs.Auth),
	}
}
