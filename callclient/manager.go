package callclient

import (
	"fmt"
	"sync"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// Callbacks, Manager'ın UI katmanına açtığı olay yüzeyi.
// Tüm alanlar opsiyoneldir — nil callback çağrılmaz.
type Callbacks struct {
	// OnIncomingCall, yeni bir gelen arama bildirimi oluştuğunda çağrılır.
	// UI bu noktada accept/reject modal'ını gösterir.
	OnIncomingCall func(*IncomingCall)

	// OnStateChange, her yaşam döngüsü geçişinde çağrılır.
	// ringing'de gelen arama prompt'u, accepted/active'de arama yüzeyi
	// görünür — projeksiyon UI'a aittir.
	OnStateChange func(CallState)

	// OnOutgoingAccepted, başlattığımız arama karşı tarafça kabul
	// edildiğinde çağrılır. UI bu noktada medya oturumunu kurar.
	OnOutgoingAccepted func(signal models.CallSignal)

	// OnOutgoingRejected, başlattığımız arama reddedildiğinde veya
	// karşı taraf meşgul/offline olduğunda çağrılır.
	OnOutgoingRejected func(signal models.CallSignal)

	// OnSignalingFailed, reconnect bütçesi tükendiğinde çağrılır.
	// Bu terminal bir durumdur — Manager yeniden yaratılmalıdır.
	OnSignalingFailed func(error)
}

// Config, Manager kurulum parametreleri.
type Config struct {
	// LocalUserID, kimliği doğrulanmış kullanıcının ID'si. Zorunlu.
	LocalUserID string

	// Channel, signaling kanalı. Zorunlu (prod: NewWSChannel).
	Channel SignalChannel

	// Fetcher, caller display enrichment'ı. nil olabilir.
	Fetcher ProfileFetcher

	// Scheduler, timer soyutlaması. nil ise üretim scheduler'ı kullanılır.
	Scheduler Scheduler

	Callbacks Callbacks
}

// Manager, composition root: ReconnectingSubscriber → InviteTranslator →
// LifecycleController zincirini kurar ve dış dünyaya tek bir yüzey açar.
//
// Accept/Reject sinyalleri, alırken kullanılan kanal soyutlamasının
// aynısı üzerinden dışarı gönderilir.
type Manager struct {
	localUserID string
	channel     SignalChannel
	subscriber  *ReconnectingSubscriber
	translator  *InviteTranslator
	controller  *LifecycleController
	callbacks   Callbacks

	mu     sync.Mutex
	closed bool
}

// New, Manager kurar. Start çağrılana kadar kanal bağlantısı açılmaz.
func New(cfg Config) (*Manager, error) {
	if cfg.LocalUserID == "" {
		return nil, fmt.Errorf("local user id is required")
	}
	if cfg.Channel == nil {
		return nil, fmt.Errorf("signal channel is required")
	}

	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = NewScheduler()
	}

	m := &Manager{
		localUserID: cfg.LocalUserID,
		channel:     cfg.Channel,
		translator:  NewInviteTranslator(cfg.LocalUserID, cfg.Fetcher),
		controller:  NewLifecycleController(cfg.LocalUserID, cfg.Channel, scheduler),
		callbacks:   cfg.Callbacks,
	}
	m.subscriber = NewReconnectingSubscriber(cfg.Channel, scheduler, cfg.Callbacks.OnSignalingFailed)

	if cfg.Callbacks.OnIncomingCall != nil {
		m.controller.OnIncomingCall(cfg.Callbacks.OnIncomingCall)
	}
	if cfg.Callbacks.OnStateChange != nil {
		m.controller.OnStateChange(cfg.Callbacks.OnStateChange)
	}

	return m, nil
}

// Start, per-user topic'e abone olur ve sinyal akışını başlatır.
func (m *Manager) Start() error {
	return m.subscriber.Start(m.localUserID, m.handleEvent)
}

// handleEvent, kanaldan gelen sinyalleri ilgili bileşene yönlendirir.
func (m *Manager) handleEvent(event SignalEvent) {
	switch event.Kind {
	case EventInvite:
		if n := m.translator.Translate(event.Signal); n != nil {
			m.controller.HandleNotification(n)
		}

	case EventAccept:
		// Başlattığımız arama kabul edildi — medya kurulumu UI'a düşer.
		if m.callbacks.OnOutgoingAccepted != nil && event.Signal.To == m.localUserID {
			m.callbacks.OnOutgoingAccepted(event.Signal)
		}

	case EventReject:
		// İki anlamı var: çalan aramamız caller tarafından iptal edildi,
		// ya da başlattığımız arama reddedildi. Controller ilkini callID
		// eşleşmesiyle ayıklar; ikincisi UI callback'ine gider.
		m.controller.HandleRemoteReject(event.Signal.CallID)
		if m.callbacks.OnOutgoingRejected != nil && event.Signal.To == m.localUserID {
			m.callbacks.OnOutgoingRejected(event.Signal)
		}

	case EventEnd:
		m.controller.HandleRemoteEnd(event.Signal.CallID)

	case EventBusy:
		if m.callbacks.OnOutgoingRejected != nil {
			m.callbacks.OnOutgoingRejected(event.Signal)
		}
	}
}

// Invite, hedef kullanıcıya yeni bir arama başlatır.
// callId sunucu tarafında üretilir ve her iki tarafa broadcast edilen
// invite sinyalinde döner.
func (m *Manager) Invite(targetUserID string, callType models.CallType) error {
	if targetUserID == "" || targetUserID == m.localUserID {
		return fmt.Errorf("invalid call target")
	}
	if !callType.Valid() {
		return fmt.Errorf("unknown call type %q", callType)
	}

	return m.channel.Send(ws.OpCallInvite, models.CallSignal{
		To:        targetUserID,
		From:      m.localUserID,
		Type:      callType,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Accept, çalan aramayı kabul eder. İdempotent.
func (m *Manager) Accept(callID string) error {
	return m.controller.Accept(callID)
}

// Reject, çalan aramayı reddeder.
func (m *Manager) Reject(callID string) error {
	return m.controller.Reject(callID)
}

// Dismiss, arama yüzeyini yerel olarak kapatır (sinyal göndermez).
func (m *Manager) Dismiss() {
	m.controller.Dismiss()
}

// End, süren aramayı sonlandırır.
func (m *Manager) End() {
	m.controller.End()
}

// MediaConnected, medya oturumu kurulduğunda çağrılır (accepted → active).
func (m *Manager) MediaConnected() {
	m.controller.MediaConnected()
}

// State, güncel arama durumunu döner.
func (m *Manager) State() CallState {
	return m.controller.State()
}

// Current, güncel gelen arama bildirimini döner (nil = yok).
func (m *Manager) Current() *IncomingCall {
	return m.controller.Current()
}

// Close, tüm kaynakları koşulsuz bırakır: ring countdown timer'ı,
// bekleyen reconnect timer'ı ve kanal aboneliği. Birden fazla çağrı
// güvenlidir.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.subscriber.Stop()
	m.controller.Close()
	m.translator.Close()
}
