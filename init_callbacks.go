// Package main — WebSocket Hub callback wire-up.
//
// registerHubCallbacks, Hub'ın presence/typing/call callback'lerini ayarlar.
//
// Bu callback'ler neden burada (main package'da)?
// Hub ws paketinde yaşıyor, ama iş mantığı service/repo katmanında.
// Hub'ın service'lere bağımlı olmasını istemiyoruz (Dependency Inversion).
// main package wire-up noktasıdır — tüm katmanları birbirine bağlar.
//
// Callback'ler Hub.Run() goroutine'inden ayrı goroutine'de çalışır
// (addClient/removeClient içinde `go callback()` ile çağrılır),
// böylece Hub'ın mutex Lock'u ile BroadcastToUser'ın RLock'u çakışmaz.
package main

import (
	"context"
	"log"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// registerHubCallbacks, tüm Hub callback'lerini register eder.
func registerHubCallbacks(
	hub *ws.Hub,
	userRepo repository.UserRepository,
	chatService services.ChatService,
	callService services.CallService,
) {
	// ─── Presence ───

	hub.OnUserFirstConnect(func(userID string) {
		if err := userRepo.UpdateStatus(context.Background(), userID, models.UserStatusOnline); err != nil {
			log.Printf("[presence] failed to set online for user %s: %v", userID, err)
			return
		}
		broadcastPresence(hub, userID, string(models.UserStatusOnline))
	})

	hub.OnUserFullyDisconnected(func(userID string) {
		if err := userRepo.UpdateStatus(context.Background(), userID, models.UserStatusOffline); err != nil {
			log.Printf("[presence] failed to set offline for user %s: %v", userID, err)
		} else {
			broadcastPresence(hub, userID, string(models.UserStatusOffline))
		}

		// Süren arama varsa kapat ve karşı tarafa bildir.
		callService.HandleDisconnect(userID)
	})

	hub.OnPresenceManualUpdate(func(userID, status string) {
		if err := userRepo.UpdateStatus(context.Background(), userID, models.UserStatus(status)); err != nil {
			log.Printf("[presence] failed to update status for user %s: %v", userID, err)
			return
		}
		broadcastPresence(hub, userID, status)
	})

	// ─── Typing ───

	hub.OnTyping(func(userID, conversationID string) {
		chatService.NotifyTyping(userID, conversationID)
	})

	// ─── Call signaling ───
	//
	// Client'tan gelen call event'leri CallService'e yönlendirilir.
	// From alanı client.go'da bağlantı sahibinin ID'si ile doldurulur —
	// spoofing mümkün değil.

	hub.OnCallInvite(func(userID string, signal models.CallSignal) {
		if err := callService.Invite(userID, signal); err != nil {
			log.Printf("[call] invite error from=%s to=%s: %v", userID, signal.To, err)
		}
	})

	hub.OnCallAccept(func(userID string, signal models.CallSignal) {
		if err := callService.Accept(userID, signal.CallID); err != nil {
			log.Printf("[call] accept error user=%s call=%s: %v", userID, signal.CallID, err)
		}
	})

	hub.OnCallReject(func(userID string, signal models.CallSignal) {
		if err := callService.Reject(userID, signal.CallID); err != nil {
			log.Printf("[call] reject error user=%s call=%s: %v", userID, signal.CallID, err)
		}
	})

	hub.OnCallEnd(func(userID string) {
		if err := callService.End(userID); err != nil {
			log.Printf("[call] end error user=%s: %v", userID, err)
		}
	})
}

// broadcastPresence, presence değişikliğini tüm online kullanıcılara duyurur.
func broadcastPresence(hub *ws.Hub, userID, status string) {
	event := ws.Event{
		Op:   ws.OpPresence,
		Data: ws.PresenceData{UserID: userID, Status: status},
	}
	for _, id := range hub.GetOnlineUserIDs() {
		hub.BroadcastToUser(id, event)
	}
	log.Printf("[presence] user %s is now %s", userID, status)
}
