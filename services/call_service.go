// Package services — CallService: 1-on-1 arama signaling iş mantığı.
//
// Arama sistemi:
// - Sadece eşleşmiş (matched) kullanıcılar birbirini arayabilir
// - Sunucu signaling relay + yaşam döngüsü takibi yapar — medya LiveKit'te
// - Tüm state ephemeral (in-memory) — DB kaydı yok, restart'ta temizlenir
//
// In-memory state:
// - activeCalls: callID → *Call
// - userCalls:   userID → callID (her kullanıcı max 1 arama)
// - ringTimers:  callID → *time.Timer (çalma süresi dolunca otomatik reject)
// - sync.RWMutex ile concurrent erişim koruması
//
// Signaling akışı:
// 1. Caller → Invite → Server validate → BroadcastToUser(callee): call-invite
// 2. Callee → Accept → Server update → her iki tarafa call-accept
// 3. İki taraf MediaService'ten LiveKit token alıp odaya bağlanır
// 4. Herhangi biri → End → Server cleanup → karşı tarafa call-end
//
// Çalma zamanlayıcısı:
// Her ringing girişinde TEK bir 60sn timer kurulur. Süre dolarsa arama
// "timeout" nedeniyle reddedilmiş sayılır. Accept/Reject/End/Disconnect
// yollarının hepsi state değişmeden ÖNCE timer'ı söndürür — bir arama
// için timer en fazla bir kez ateşlenir veya söndürülür.
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// ─── ISP Interface'leri ───
//
// Interface Segregation: CallService tam repository'lere değil, sadece
// ihtiyacı olan metotlara bağımlıdır. repository implementasyonları bu
// interface'leri duck typing ile otomatik karşılar.

// MatchChecker, iki kullanıcının eşleşmiş olup olmadığını kontrol eder.
type MatchChecker interface {
	AreMatched(ctx context.Context, userA, userB string) (bool, error)
}

// BlockChecker, iki kullanıcı arasında engelleme olup olmadığını kontrol eder.
type BlockChecker interface {
	IsBlockedEither(ctx context.Context, userA, userB string) (bool, error)
}

// UserInfoGetter, kullanıcı bilgisi almak için minimal interface.
type UserInfoGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ActivityLogger, activity log satırı yazmak için minimal interface.
type ActivityLogger interface {
	Create(ctx context.Context, entry *models.ActivityEntry) error
}

// ─── CallService Interface ───

// CallService, arama operasyonları için iş mantığı interface'i.
type CallService interface {
	// Invite, yeni bir arama başlatır.
	// Eşleşme, engelleme ve online kontrolü yapar; callee meşgulse
	// caller'a call_busy gönderir.
	Invite(callerID string, signal models.CallSignal) error

	// Accept, gelen bir aramayı kabul eder. Sadece callee kabul edebilir.
	// Aynı callee'nin tekrarlanan accept'i idempotent'tir — ikinci çağrı
	// state değiştirmez ve yeni broadcast üretmez.
	Accept(userID, callID string) error

	// Reject, çalan bir aramayı reddeder (callee) veya iptal eder (caller).
	Reject(userID, callID string) error

	// End, aktif bir aramayı sonlandırır. Her iki taraf da sonlandırabilir.
	End(userID string) error

	// HandleDisconnect, kullanıcının WS bağlantısı koptuğunda çağrılır.
	// Aktif araması varsa sonlandırır ve karşı tarafa bildirir.
	HandleDisconnect(userID string)

	// GetUserCall, kullanıcının aktif aramasını döner (nil = aramada değil).
	GetUserCall(userID string) *models.Call

	// Shutdown, tüm bekleyen çalma timer'larını iptal eder (graceful shutdown).
	Shutdown()
}

// callService, CallService'in private implementasyonu.
type callService struct {
	matchChecker MatchChecker
	blockChecker BlockChecker
	userGetter   UserInfoGetter
	activityLog  ActivityLogger
	hub          ws.EventPublisher

	ringTimeout time.Duration

	// activeCalls: callID → *Call (aktif aramalar)
	activeCalls map[string]*models.Call

	// userCalls: userID → callID. Caller invite anında, callee accept
	// anında eklenir — ringing sırasında callee başka arama alabilir mi
	// sorusunun cevabı hayır: callee de invite anında kaydedilir.
	userCalls map[string]string

	// ringTimers: callID → timer. Map'ten silinmiş bir timer söndürülmüş
	// sayılır — ateşlense bile expireCall call'u bulamaz ve no-op olur.
	ringTimers map[string]*time.Timer

	mu sync.RWMutex
}

// NewCallService, constructor. Tüm dependency'ler injection ile alınır.
func NewCallService(
	matchChecker MatchChecker,
	blockChecker BlockChecker,
	userGetter UserInfoGetter,
	activityLog ActivityLogger,
	hub ws.EventPublisher,
	ringTimeout time.Duration,
) CallService {
	return &callService{
		matchChecker: matchChecker,
		blockChecker: blockChecker,
		userGetter:   userGetter,
		activityLog:  activityLog,
		hub:          hub,
		ringTimeout:  ringTimeout,
		activeCalls:  make(map[string]*models.Call),
		userCalls:    make(map[string]string),
		ringTimers:   make(map[string]*time.Timer),
	}
}

// Invite, yeni bir arama başlatır.
func (s *callService) Invite(callerID string, signal models.CallSignal) error {
	calleeID := signal.To

	// 1. Kendini arayamaz
	if callerID == calleeID {
		return fmt.Errorf("%w: cannot call yourself", pkg.ErrBadRequest)
	}

	ctx := context.Background()

	// 2. Eşleşme kontrolü — arama sadece match'ler arasında
	matched, err := s.matchChecker.AreMatched(ctx, callerID, calleeID)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("%w: not matched", pkg.ErrForbidden)
	}

	// 3. Engelleme kontrolü — iki yönden biri yeterli
	blocked, err := s.blockChecker.IsBlockedEither(ctx, callerID, calleeID)
	if err != nil {
		return err
	}
	if blocked {
		return fmt.Errorf("%w: blocked", pkg.ErrForbidden)
	}

	// 4. Callee hesabı askıda mı?
	callee, err := s.userGetter.GetByID(ctx, calleeID)
	if err != nil {
		return err
	}
	if callee.Suspended {
		return fmt.Errorf("%w: user unavailable", pkg.ErrForbidden)
	}

	// 5. Callee online mı?
	if !s.hub.IsOnline(calleeID) {
		s.hub.BroadcastToUser(callerID, ws.Event{
			Op:   ws.OpCallReject,
			Data: models.CallSignal{To: callerID, From: calleeID, Type: signal.Type, Timestamp: nowMillis(), Reason: "offline"},
		})
		return fmt.Errorf("%w: user is offline", pkg.ErrBadRequest)
	}

	// 6. Meşgul kontrolleri
	s.mu.RLock()
	_, callerBusy := s.userCalls[callerID]
	_, calleeBusy := s.userCalls[calleeID]
	s.mu.RUnlock()

	if callerBusy {
		return fmt.Errorf("%w: already in a call", pkg.ErrBadRequest)
	}
	if calleeBusy {
		// Busy de bir CallSignal taşır — client tarafı tüm arama op'larını
		// aynı payload şekliyle decode eder.
		s.hub.BroadcastToUser(callerID, ws.Event{
			Op:   ws.OpCallBusy,
			Data: models.CallSignal{To: callerID, From: calleeID, Type: signal.Type, Timestamp: nowMillis(), Reason: "busy"},
		})
		return fmt.Errorf("%w: user is busy", pkg.ErrBadRequest)
	}

	// 7. Call oluştur
	call := &models.Call{
		ID:        uuid.New().String(),
		CallerID:  callerID,
		CalleeID:  calleeID,
		CallType:  signal.Type,
		RoomName:  models.CallRoomName(callerID, calleeID),
		Status:    models.CallStatusRinging,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.activeCalls[call.ID] = call
	// İki taraf da invite anında kaydedilir — çalarken ikinci arama gelmez
	s.userCalls[callerID] = call.ID
	s.userCalls[calleeID] = call.ID
	// Ringing girişi başına tam bir timer kurulur
	s.ringTimers[call.ID] = time.AfterFunc(s.ringTimeout, func() {
		s.expireCall(call.ID)
	})
	s.mu.Unlock()

	log.Printf("[call] invite: %s → %s (type=%s, id=%s)", callerID, calleeID, signal.Type, call.ID)

	// 8. Wire signal'ı her iki tarafa gönder
	out := models.CallSignal{
		To:        calleeID,
		From:      callerID,
		CallID:    call.ID,
		Type:      call.CallType,
		Timestamp: nowMillis(),
	}
	s.hub.BroadcastToUser(calleeID, ws.Event{Op: ws.OpCallInvite, Data: out})
	s.hub.BroadcastToUser(callerID, ws.Event{Op: ws.OpCallInvite, Data: out})

	return nil
}

// Accept, gelen bir aramayı kabul eder.
func (s *callService) Accept(userID, callID string) error {
	s.mu.Lock()
	call, exists := s.activeCalls[callID]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: call not found", pkg.ErrNotFound)
	}

	// Sadece callee kabul edebilir
	if call.CalleeID != userID {
		s.mu.Unlock()
		return fmt.Errorf("%w: only callee can accept", pkg.ErrForbidden)
	}

	// İdempotent: arama zaten bu callee tarafından kabul edilmişse
	// ikinci accept no-op'tur — yeni geçiş yok, yeni broadcast yok.
	if call.Status == models.CallStatusActive {
		s.mu.Unlock()
		return nil
	}

	if call.Status != models.CallStatusRinging {
		s.mu.Unlock()
		return fmt.Errorf("%w: call is not ringing", pkg.ErrBadRequest)
	}

	// Timer state değişmeden ÖNCE söndürülür
	s.stopRingTimerLocked(callID)
	call.Status = models.CallStatusActive
	s.mu.Unlock()

	log.Printf("[call] accepted: %s accepted call %s", userID, callID)

	out := models.CallSignal{
		To:        call.CallerID,
		From:      userID,
		CallID:    callID,
		Type:      call.CallType,
		Timestamp: nowMillis(),
	}
	s.hub.BroadcastToUser(call.CallerID, ws.Event{Op: ws.OpCallAccept, Data: out})
	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpCallAccept, Data: out})

	// Kalıcı iz: activity log satırı
	s.recordActivity(call)

	return nil
}

// Reject, çalan bir aramayı reddeder veya caller tarafından iptal edilir.
func (s *callService) Reject(userID, callID string) error {
	s.mu.Lock()
	call, exists := s.activeCalls[callID]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: call not found", pkg.ErrNotFound)
	}

	if call.CallerID != userID && call.CalleeID != userID {
		s.mu.Unlock()
		return fmt.Errorf("%w: not part of this call", pkg.ErrForbidden)
	}

	s.stopRingTimerLocked(callID)
	s.cleanupLocked(call)
	s.mu.Unlock()

	log.Printf("[call] rejected: %s rejected call %s", userID, callID)

	other := call.OtherParty(userID)
	reason := "rejected"
	if userID == call.CallerID {
		reason = "cancelled"
	}
	s.hub.BroadcastToUser(other, ws.Event{
		Op: ws.OpCallReject,
		Data: models.CallSignal{
			To: other, From: userID, CallID: callID,
			Type: call.CallType, Timestamp: nowMillis(), Reason: reason,
		},
	})

	return nil
}

// End, aktif bir aramayı sonlandırır.
func (s *callService) End(userID string) error {
	s.mu.Lock()
	callID, exists := s.userCalls[userID]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: not in a call", pkg.ErrBadRequest)
	}

	call, exists := s.activeCalls[callID]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: call not found", pkg.ErrNotFound)
	}

	s.stopRingTimerLocked(callID)
	s.cleanupLocked(call)
	s.mu.Unlock()

	log.Printf("[call] ended: %s ended call %s", userID, callID)

	other := call.OtherParty(userID)
	s.hub.BroadcastToUser(other, ws.Event{
		Op: ws.OpCallEnd,
		Data: models.CallSignal{
			To: other, From: userID, CallID: callID,
			Type: call.CallType, Timestamp: nowMillis(),
		},
	})

	return nil
}

// HandleDisconnect, kullanıcının WS bağlantısı koptuğunda çağrılır.
func (s *callService) HandleDisconnect(userID string) {
	s.mu.Lock()
	callID, exists := s.userCalls[userID]
	if !exists {
		s.mu.Unlock()
		return
	}

	call, exists := s.activeCalls[callID]
	if !exists {
		s.mu.Unlock()
		return
	}

	s.stopRingTimerLocked(callID)
	s.cleanupLocked(call)
	s.mu.Unlock()

	log.Printf("[call] ended due to disconnect: user=%s, call=%s", userID, callID)

	other := call.OtherParty(userID)
	s.hub.BroadcastToUser(other, ws.Event{
		Op: ws.OpCallEnd,
		Data: models.CallSignal{
			To: other, From: userID, CallID: callID,
			Type: call.CallType, Timestamp: nowMillis(), Reason: "disconnect",
		},
	})
}

// GetUserCall, kullanıcının aktif aramasını döner (nil = aramada değil).
func (s *callService) GetUserCall(userID string) *models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	callID, exists := s.userCalls[userID]
	if !exists {
		return nil
	}
	return s.activeCalls[callID]
}

// Shutdown, bekleyen tüm çalma timer'larını iptal eder.
func (s *callService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for callID, timer := range s.ringTimers {
		timer.Stop()
		delete(s.ringTimers, callID)
	}
	s.activeCalls = make(map[string]*models.Call)
	s.userCalls = make(map[string]string)
	log.Println("[call] service shut down, all ring timers cancelled")
}

// expireCall, çalma süresi dolduğunda timer tarafından çağrılır.
// Arama bu arada kabul/reddedilmişse (timer'ı söndüren yol kazanmışsa)
// no-op'tur — map'te bulunamaz.
func (s *callService) expireCall(callID string) {
	s.mu.Lock()
	call, exists := s.activeCalls[callID]
	if !exists || call.Status != models.CallStatusRinging {
		s.mu.Unlock()
		return
	}

	delete(s.ringTimers, callID)
	s.cleanupLocked(call)
	s.mu.Unlock()

	log.Printf("[call] ring timeout: call %s expired", callID)

	// Her iki tarafa timeout reject'i gönderilir — callee arayüzü
	// "cevapsız arama"ya, caller arayüzü "cevap yok"a düşer.
	ts := nowMillis()
	s.hub.BroadcastToUser(call.CallerID, ws.Event{
		Op: ws.OpCallReject,
		Data: models.CallSignal{
			To: call.CallerID, From: call.CalleeID, CallID: callID,
			Type: call.CallType, Timestamp: ts, Reason: "timeout",
		},
	})
	s.hub.BroadcastToUser(call.CalleeID, ws.Event{
		Op: ws.OpCallReject,
		Data: models.CallSignal{
			To: call.CalleeID, From: call.CallerID, CallID: callID,
			Type: call.CallType, Timestamp: ts, Reason: "timeout",
		},
	})
}

// stopRingTimerLocked, timer'ı söndürür. Caller mutex'i tutuyor olmalı.
// Map'ten silme + Stop birlikte yapılır; Stop false dönse bile (timer
// ateşlenmek üzereyse) expireCall map kontrolünde call'u ringing dışında
// bulur ve no-op olur.
func (s *callService) stopRingTimerLocked(callID string) {
	if timer, ok := s.ringTimers[callID]; ok {
		timer.Stop()
		delete(s.ringTimers, callID)
	}
}

// cleanupLocked, call state'ini temizler. Caller mutex'i tutuyor olmalı.
func (s *callService) cleanupLocked(call *models.Call) {
	call.Status = models.CallStatusEnded
	delete(s.activeCalls, call.ID)
	delete(s.userCalls, call.CallerID)
	delete(s.userCalls, call.CalleeID)
}

// recordActivity, kabul edilen arama için activity log satırı yazar.
// Best-effort — hata arama akışını bozmaz.
func (s *callService) recordActivity(call *models.Call) {
	if s.activityLog == nil {
		return
	}
	detail := string(call.CallType)
	entry := &models.ActivityEntry{
		Type:     models.ActivityCall,
		UserID:   call.CallerID,
		TargetID: &call.CalleeID,
		Detail:   &detail,
	}
	if err := s.activityLog.Create(context.Background(), entry); err != nil {
		log.Printf("[call] failed to record activity for call %s: %v", call.ID, err)
	}
}

// nowMillis, wire timestamp'i için epoch millisecond döner.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
