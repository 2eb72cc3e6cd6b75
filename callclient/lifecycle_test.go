package callclient

import (
	"errors"
	"testing"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

func notification(callID, callerID string) *IncomingCall {
	return &IncomingCall{
		CallID:     callID,
		CallerID:   callerID,
		CallerName: "Maria",
		CallType:   models.CallTypeVideo,
		RoomName:   models.CallRoomName(callerID, "user-1"),
		ReceivedAt: time.Now(),
	}
}

func newController(ch *fakeChannel, sched *fakeScheduler) *LifecycleController {
	return NewLifecycleController("user-1", ch, sched)
}

func TestLifecycleIdleToRinging(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	var incoming []*IncomingCall
	c.OnIncomingCall(func(n *IncomingCall) { incoming = append(incoming, n) })

	c.HandleNotification(notification("c1", "user-2"))

	if c.State() != CallStateRinging {
		t.Fatalf("expected ringing, got %s", c.State())
	}
	if len(incoming) != 1 || incoming[0].CallID != "c1" {
		t.Fatalf("expected 1 incoming callback for c1, got %+v", incoming)
	}
	// ringing girişi tam bir timer kurar.
	if n := len(sched.scheduledDelays()); n != 1 {
		t.Fatalf("expected exactly 1 ring timer, got %d", n)
	}
	if d := sched.scheduledDelays()[0]; d != 60*time.Second {
		t.Fatalf("expected 60s ring timeout, got %s", d)
	}
}

// Çözülmemiş bildirim dururken gelen ikinci invite eskisinin yerini alır
// (last-write-wins, tek slot — kuyruk yok).
func TestLifecycleLastWriteWinsReplacement(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	c.HandleNotification(notification("c1", "user-2"))
	c.HandleNotification(notification("c2", "user-3"))

	cur := c.Current()
	if cur == nil || cur.CallID != "c2" {
		t.Fatalf("expected current call c2, got %+v", cur)
	}

	// Eski invite'ın timer'ı sökülmüş, yenisi kurulmuş olmalı.
	if sched.pendingCount() != 1 {
		t.Fatalf("expected exactly 1 pending ring timer, got %d", sched.pendingCount())
	}

	// Eski timer çalışsa bile (yarış) yeni aramaya dokunamaz.
	sched.Fire(0)
	if c.State() != CallStateRinging || c.Current().CallID != "c2" {
		t.Fatal("stale ring timer must not affect the replacing call")
	}
}

// 60 saniye içinde accept/reject gelmezse ringing otomatik idle'a döner.
func TestLifecycleRingExpiry(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	var states []CallState
	c.OnStateChange(func(s CallState) { states = append(states, s) })

	c.HandleNotification(notification("c1", "user-2"))
	sched.Fire(0)

	if c.State() != CallStateIdle {
		t.Fatalf("expected idle after expiry, got %s", c.State())
	}
	if c.Current() != nil {
		t.Fatal("expected cleared notification after expiry")
	}

	sawExpired := false
	for _, s := range states {
		if s == CallStateExpired {
			sawExpired = true
		}
	}
	if !sawExpired {
		t.Fatalf("expected expired transition in %v", states)
	}

	// Expire sonrası hiçbir outbound sinyal gitmez, timer kalmaz.
	if len(ch.sentSignals()) != 0 {
		t.Fatalf("expiry must not send signals, sent %v", ch.sentSignals())
	}
	if sched.pendingCount() != 0 {
		t.Fatal("expected no pending timers after expiry")
	}
}

func TestLifecycleAcceptTransitionsAndDisarmsTimer(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	c.HandleNotification(notification("c1", "user-2"))

	if err := c.Accept("c1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if c.State() != CallStateAccepted {
		t.Fatalf("expected accepted, got %s", c.State())
	}
	if sched.pendingCount() != 0 {
		t.Fatal("ring timer must be disarmed on accept")
	}

	sent := ch.sentSignals()
	if len(sent) != 1 || sent[0].Op != ws.OpCallAccept {
		t.Fatalf("expected one call-accept signal, got %v", sent)
	}
	if sent[0].Signal.To != "user-2" || sent[0].Signal.From != "user-1" || sent[0].Signal.CallID != "c1" {
		t.Fatalf("unexpected accept signal: %+v", sent[0].Signal)
	}

	// Timer expire artık no-op (disarm edilmiş olsa da yarış güvenliği).
	sched.FireAll()
	if c.State() != CallStateAccepted {
		t.Fatal("fired stale timer must not change accepted state")
	}
}

// Art arda iki Accept tek geçiş ve tek outbound sinyal üretir.
func TestLifecycleAcceptIsIdempotent(t *testing.T) {
	ch := newFakeChannel()
	c := newController(ch, newFakeScheduler())

	c.HandleNotification(notification("c1", "user-2"))

	if err := c.Accept("c1"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if err := c.Accept("c1"); err != nil {
		t.Fatalf("second accept should be a no-op, got %v", err)
	}

	if n := len(ch.sentSignals()); n != 1 {
		t.Fatalf("expected exactly 1 outbound accept, got %d", n)
	}
}

// Outbound accept başarısız olursa state ringing'de kalır ve hata yüzeye çıkar.
func TestLifecycleAcceptFailureRevertsToRinging(t *testing.T) {
	ch := newFakeChannel()
	ch.sendErr = errors.New("connection lost")
	sched := newFakeScheduler()
	c := newController(ch, sched)

	c.HandleNotification(notification("c1", "user-2"))

	err := c.Accept("c1")
	if err == nil {
		t.Fatal("expected accept error to surface")
	}
	if c.State() != CallStateRinging {
		t.Fatalf("expected state to stay ringing, got %s", c.State())
	}
	// Timer hâlâ kurulu — arama 60sn kuralına tabi kalmaya devam eder.
	if sched.pendingCount() != 1 {
		t.Fatal("ring timer must stay armed after failed accept")
	}

	// Kanal düzelince retry başarılı olur.
	ch.sendErr = nil
	if err := c.Accept("c1"); err != nil {
		t.Fatalf("retry accept: %v", err)
	}
	if c.State() != CallStateAccepted {
		t.Fatalf("expected accepted after retry, got %s", c.State())
	}
}

func TestLifecycleReject(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	c.HandleNotification(notification("c1", "user-2"))

	if err := c.Reject("c1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if c.State() != CallStateIdle {
		t.Fatalf("expected idle after reject, got %s", c.State())
	}
	if c.Current() != nil {
		t.Fatal("expected cleared notification after reject")
	}
	if sched.pendingCount() != 0 {
		t.Fatal("ring timer must be disarmed on reject")
	}

	sent := ch.sentSignals()
	if len(sent) != 1 || sent[0].Op != ws.OpCallReject {
		t.Fatalf("expected one call-reject signal, got %v", sent)
	}
}

func TestLifecycleAcceptUnknownCall(t *testing.T) {
	c := newController(newFakeChannel(), newFakeScheduler())

	if err := c.Accept("nope"); err == nil {
		t.Fatal("expected error accepting without a ringing call")
	}

	c.HandleNotification(notification("c1", "user-2"))
	if err := c.Accept("other"); err == nil {
		t.Fatal("expected error accepting mismatched call id")
	}
}

func TestLifecycleMediaConnectedAndEnd(t *testing.T) {
	ch := newFakeChannel()
	c := newController(ch, newFakeScheduler())

	c.HandleNotification(notification("c1", "user-2"))
	if err := c.Accept("c1"); err != nil {
		t.Fatal(err)
	}

	c.MediaConnected()
	if c.State() != CallStateActive {
		t.Fatalf("expected active, got %s", c.State())
	}

	c.End()
	if c.State() != CallStateIdle {
		t.Fatalf("expected idle after end, got %s", c.State())
	}

	sent := ch.sentSignals()
	if len(sent) != 2 || sent[1].Op != ws.OpCallEnd {
		t.Fatalf("expected accept + end signals, got %v", sent)
	}
}

func TestLifecycleRemoteRejectCancelsRinging(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	var states []CallState
	c.OnStateChange(func(s CallState) { states = append(states, s) })

	c.HandleNotification(notification("c1", "user-2"))
	c.HandleRemoteReject("c1")

	if c.State() != CallStateIdle {
		t.Fatalf("expected idle after remote cancel, got %s", c.State())
	}
	if sched.pendingCount() != 0 {
		t.Fatal("ring timer must be disarmed on remote cancel")
	}

	sawCancelled := false
	for _, s := range states {
		if s == CallStateCancelled {
			sawCancelled = true
		}
	}
	if !sawCancelled {
		t.Fatalf("expected cancelled transition in %v", states)
	}
}

func TestLifecycleRemoteRejectIgnoresStaleCallID(t *testing.T) {
	c := newController(newFakeChannel(), newFakeScheduler())

	c.HandleNotification(notification("c1", "user-2"))
	c.HandleRemoteReject("old-call")

	if c.State() != CallStateRinging {
		t.Fatal("stale remote reject must not affect current call")
	}
}

// Teardown her koşulda timer'ları temizler — simüle zaman ilerlese bile
// hiçbir timer iş yapamaz.
func TestLifecycleCloseClearsTimers(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	var states []CallState
	c.OnStateChange(func(s CallState) { states = append(states, s) })

	c.HandleNotification(notification("c1", "user-2"))
	c.Close()

	if sched.pendingCount() != 0 {
		t.Fatal("close must cancel the ring timer")
	}

	before := len(states)
	sched.FireAll()
	if len(states) != before {
		t.Fatal("no state transitions may fire after close")
	}

	c.HandleNotification(notification("c2", "user-3"))
	if c.Current() != nil {
		t.Fatal("closed controller must ignore new notifications")
	}
	if err := c.Accept("c2"); err == nil {
		t.Fatal("closed controller must reject accept calls")
	}
}

func TestLifecycleDismissFromRinging(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	c := newController(ch, sched)

	c.HandleNotification(notification("c1", "user-2"))
	c.Dismiss()

	if c.State() != CallStateIdle || c.Current() != nil {
		t.Fatal("expected idle with cleared slot after dismiss")
	}
	if sched.pendingCount() != 0 {
		t.Fatal("dismiss must disarm the ring timer")
	}
	if len(ch.sentSignals()) != 0 {
		t.Fatal("dismiss is local only, no outbound signals")
	}
}
