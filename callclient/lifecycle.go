package callclient

import (
	"fmt"
	"sync"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// ringTimeout, gelen bir aramanın yanıtlanmadan çalabileceği süre.
// Süre dolunca arama otomatik expire olur — ringing UI her koşulda
// 60 saniye içinde çözülür.
const ringTimeout = 60 * time.Second

// CallState, arama yaşam döngüsündeki durumlar.
//
// Akış: idle → ringing → {accepted, rejected, expired, cancelled}
//       accepted → active → ended → idle
//
// rejected / expired / cancelled / ended geçiş anında raporlanır,
// controller hemen ardından idle'a oturur — UI bu ara durumları
// onStateChange üzerinden gözlemler.
type CallState string

const (
	CallStateIdle      CallState = "idle"
	CallStateRinging   CallState = "ringing"
	CallStateAccepted  CallState = "accepted"
	CallStateRejected  CallState = "rejected"
	CallStateExpired   CallState = "expired"
	CallStateCancelled CallState = "cancelled"
	CallStateActive    CallState = "active"
	CallStateEnded     CallState = "ended"
)

// SignalSender, outbound sinyal gönderen dar arayüz.
// SignalChannel bu arayüzü sağlar; testler sahte sender kullanır.
type SignalSender interface {
	Send(op string, signal models.CallSignal) error
}

// LifecycleController, arama state machine'i.
//
// Invariant'lar:
// - Güncel bildirim slot'unu yalnızca bu controller yazar (single-writer).
// - ringing'e her giriş TAM BİR timer kurar; ringing'den her çıkış
//   bir sonraki state'e geçmeden önce timer'ı söker. Hiçbir geçiş
//   arkada sallanan timer bırakamaz.
// - Tüm geçişler tek mutex altında serialize edilir — in-flight bir
//   geçiş sürerken gelen accept/reject bekler, asla bayat state'e
//   uygulanmaz.
type LifecycleController struct {
	scheduler Scheduler
	sender    SignalSender

	localUserID string

	mu         sync.Mutex
	state      CallState
	store      *SignalStore
	cancelRing CancelFunc
	closed     bool

	onIncomingCall func(*IncomingCall)
	onStateChange  func(CallState)
}

// NewLifecycleController, constructor. Başlangıç durumu idle'dır.
func NewLifecycleController(localUserID string, sender SignalSender, scheduler Scheduler) *LifecycleController {
	return &LifecycleController{
		scheduler:   scheduler,
		sender:      sender,
		localUserID: localUserID,
		state:       CallStateIdle,
		store:       NewSignalStore(),
	}
}

// OnIncomingCall, yeni bir gelen arama bildirimi oluştuğunda çağrılacak
// callback'i kaydeder. Start'tan önce kaydedilmelidir.
func (c *LifecycleController) OnIncomingCall(fn func(*IncomingCall)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIncomingCall = fn
}

// OnStateChange, her state geçişinde çağrılacak callback'i kaydeder.
func (c *LifecycleController) OnStateChange(fn func(CallState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// State, güncel durumu döner (read-only observable).
func (c *LifecycleController) State() CallState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current, güncel arama bildirimini döner (nil = arama yok).
func (c *LifecycleController) Current() *IncomingCall {
	return c.store.Get()
}

// HandleNotification, translator'dan gelen doğrulanmış bildirimi işler.
//
// idle → ringing geçişini tetikler. Controller zaten ringing ise yeni
// invite eskisinin yerini alır (last-write-wins, tek slot) — discard
// edilen invite için yerel bir "missed" yan etkisi üretilmez.
// Aktif bir arama sürerken (accepted/active) gelen invite yok sayılır.
func (c *LifecycleController) HandleNotification(n *IncomingCall) {
	var notify []func()

	c.mu.Lock()
	if c.closed || n == nil {
		c.mu.Unlock()
		return
	}
	if c.state != CallStateIdle && c.state != CallStateRinging {
		c.mu.Unlock()
		return
	}

	// ringing'den çıkış: önceki invite'ın timer'ı yenisi kurulmadan sökülür.
	c.disarmRingLocked()
	c.store.Set(n)
	c.state = CallStateRinging
	c.armRingLocked(n.CallID)

	if c.onIncomingCall != nil {
		cb := c.onIncomingCall
		notify = append(notify, func() { cb(n) })
	}
	notify = c.appendStateChangeLocked(notify, CallStateRinging)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// Accept, çalan aramayı kabul eder.
//
// İdempotent: aynı arama için ikinci Accept no-op'tur — yeni geçiş ve
// yeni outbound sinyal üretmez. Outbound accept gönderimi başarısız
// olursa state ringing'de kalır (timer sökülmez) ve hata caller'a döner.
func (c *LifecycleController) Accept(callID string) error {
	var notify []func()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("controller is closed")
	}

	cur := c.store.Get()
	if cur != nil && cur.CallID == callID && (c.state == CallStateAccepted || c.state == CallStateActive) {
		c.mu.Unlock()
		return nil
	}
	if c.state != CallStateRinging || cur == nil || cur.CallID != callID {
		c.mu.Unlock()
		return fmt.Errorf("no ringing call with id %s", callID)
	}

	// Transactional acquire: önce outbound sinyal, başarılıysa geçiş.
	// Mutex gönderim boyunca tutulur — eşzamanlı ikinci Accept burada
	// bekler ve tamamlanınca accepted state'ini görüp no-op olur.
	signal := c.outboundSignalLocked(cur)
	if err := c.sender.Send(ws.OpCallAccept, signal); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("accept call: %w", err)
	}

	c.disarmRingLocked()
	c.state = CallStateAccepted
	notify = c.appendStateChangeLocked(notify, CallStateAccepted)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return nil
}

// Reject, çalan aramayı reddeder. Accept ile simetrik: gönderim
// başarısızsa state ringing'de kalır ve hata döner.
func (c *LifecycleController) Reject(callID string) error {
	var notify []func()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("controller is closed")
	}

	cur := c.store.Get()
	if c.state != CallStateRinging || cur == nil || cur.CallID != callID {
		c.mu.Unlock()
		return fmt.Errorf("no ringing call with id %s", callID)
	}

	signal := c.outboundSignalLocked(cur)
	signal.Reason = "rejected"
	if err := c.sender.Send(ws.OpCallReject, signal); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("reject call: %w", err)
	}

	c.disarmRingLocked()
	c.store.Clear()
	c.state = CallStateIdle
	notify = c.appendStateChangeLocked(notify, CallStateRejected)
	notify = c.appendStateChangeLocked(notify, CallStateIdle)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return nil
}

// MediaConnected, medya katmanı (LiveKit) oturumu kurduğunda çağrılır.
// accepted → active geçişi medya katmanına aittir, controller sadece
// gözlemler. accepted dışındaki durumlarda no-op.
func (c *LifecycleController) MediaConnected() {
	var notify []func()

	c.mu.Lock()
	if c.closed || c.state != CallStateAccepted {
		c.mu.Unlock()
		return
	}
	c.state = CallStateActive
	notify = c.appendStateChangeLocked(notify, CallStateActive)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// End, süren aramayı (accepted/active) sonlandırır ve karşı tarafa
// call-end sinyali gönderir. Gönderim best-effort'tur — başarısız olsa
// da yerel state idle'a döner.
func (c *LifecycleController) End() {
	var notify []func()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	cur := c.store.Get()
	if cur == nil || (c.state != CallStateAccepted && c.state != CallStateActive) {
		c.mu.Unlock()
		return
	}

	signal := c.outboundSignalLocked(cur)
	_ = c.sender.Send(ws.OpCallEnd, signal)

	c.store.Clear()
	c.state = CallStateIdle
	notify = c.appendStateChangeLocked(notify, CallStateEnded)
	notify = c.appendStateChangeLocked(notify, CallStateIdle)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// Dismiss, hangi durumda olursa olsun controller'ı idle'a döndürür:
// timer sökülür, tutulan arama handle'ı bırakılır. Outbound sinyal
// üretmez — sadece yerel temizlik.
func (c *LifecycleController) Dismiss() {
	var notify []func()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.disarmRingLocked()
	c.store.Clear()
	if c.state != CallStateIdle {
		c.state = CallStateIdle
		notify = c.appendStateChangeLocked(notify, CallStateIdle)
	}
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// HandleRemoteReject, karşı taraftan gelen call-reject sinyalini işler:
// çalan arama caller tarafından iptal edilmiştir.
func (c *LifecycleController) HandleRemoteReject(callID string) {
	c.resolveRemotely(callID, CallStateCancelled, CallStateRinging)
}

// HandleRemoteEnd, karşı taraftan gelen call-end sinyalini işler:
// süren arama diğer uçta kapatılmıştır.
func (c *LifecycleController) HandleRemoteEnd(callID string) {
	c.resolveRemotely(callID, CallStateEnded, CallStateAccepted, CallStateActive)
}

// resolveRemotely, uzak uçtan tetiklenen sonlanmaları tek yerde toplar.
// Güncel arama callID ile eşleşmiyorsa veya state beklenen durumlardan
// biri değilse no-op (bayat sinyal).
func (c *LifecycleController) resolveRemotely(callID string, via CallState, from ...CallState) {
	var notify []func()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	cur := c.store.Get()
	if cur == nil || cur.CallID != callID || !stateIn(c.state, from) {
		c.mu.Unlock()
		return
	}

	c.disarmRingLocked()
	c.store.Clear()
	c.state = CallStateIdle
	notify = c.appendStateChangeLocked(notify, via)
	notify = c.appendStateChangeLocked(notify, CallStateIdle)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// Close, controller'ı kalıcı olarak kapatır: timer sökülür, slot
// boşaltılır, sonraki tüm çağrılar no-op olur.
func (c *LifecycleController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.disarmRingLocked()
	c.store.Clear()
	c.state = CallStateIdle
}

// ─── internal ───

// armRingLocked, ringing girişinde countdown timer'ını kurar.
// Mutex tutulurken çağrılır; önceki timer'ın sökülmüş olması beklenir.
func (c *LifecycleController) armRingLocked(callID string) {
	c.cancelRing = c.scheduler.Schedule(ringTimeout, func() {
		c.expireRing(callID)
	})
}

// disarmRingLocked, ring timer'ını söker. Timer yoksa no-op — her
// çıkış path'i güvenle çağırabilir.
func (c *LifecycleController) disarmRingLocked() {
	if c.cancelRing != nil {
		c.cancelRing()
		c.cancelRing = nil
	}
}

// expireRing, 60 saniyelik countdown dolduğunda çalışır.
// Arama bu arada çözülmüşse (accept/reject/replace) no-op — timer'ın
// Stop ile yarışı state ve callID kontrolüyle çözülür.
func (c *LifecycleController) expireRing(callID string) {
	var notify []func()

	c.mu.Lock()
	cur := c.store.Get()
	if c.closed || c.state != CallStateRinging || cur == nil || cur.CallID != callID {
		c.mu.Unlock()
		return
	}

	c.cancelRing = nil
	c.store.Clear()
	c.state = CallStateIdle
	notify = c.appendStateChangeLocked(notify, CallStateExpired)
	notify = c.appendStateChangeLocked(notify, CallStateIdle)
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// outboundSignalLocked, güncel arama için outbound sinyal şekli üretir.
func (c *LifecycleController) outboundSignalLocked(cur *IncomingCall) models.CallSignal {
	return models.CallSignal{
		To:        cur.CallerID,
		From:      c.localUserID,
		CallID:    cur.CallID,
		Type:      cur.CallType,
		Timestamp: time.Now().UnixMilli(),
	}
}

// appendStateChangeLocked, state değişim callback'ini mutex dışında
// çalıştırılmak üzere kuyruğa ekler.
func (c *LifecycleController) appendStateChangeLocked(notify []func(), s CallState) []func() {
	if c.onStateChange == nil {
		return notify
	}
	cb := c.onStateChange
	return append(notify, func() { cb(s) })
}

func stateIn(s CallState, set []CallState) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
