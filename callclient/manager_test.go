package callclient

import (
	"sync"
	"testing"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

func newManager(t *testing.T, ch *fakeChannel, sched *fakeScheduler, cbs Callbacks) *Manager {
	t.Helper()
	m, err := New(Config{
		LocalUserID: "user-1",
		Channel:     ch,
		Scheduler:   sched,
		Callbacks:   cbs,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestManagerRequiresUserAndChannel(t *testing.T) {
	if _, err := New(Config{Channel: newFakeChannel()}); err == nil {
		t.Fatal("expected error without local user id")
	}
	if _, err := New(Config{LocalUserID: "user-1"}); err == nil {
		t.Fatal("expected error without channel")
	}
}

// Zincirin tamamı: kanal → subscriber → translator → controller → UI callback.
func TestManagerRoutesInviteToIncomingCall(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()

	var mu sync.Mutex
	var incoming []*IncomingCall
	m := newManager(t, ch, sched, Callbacks{
		OnIncomingCall: func(n *IncomingCall) {
			mu.Lock()
			incoming = append(incoming, n)
			mu.Unlock()
		},
	})
	defer m.Close()

	// 3 sinyal: sadece biri doğru adresli.
	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("user-2", "user-9", "c1")})
	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("user-1", "user-1", "c2")})
	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("user-2", "user-1", "c3")})

	mu.Lock()
	defer mu.Unlock()
	if len(incoming) != 1 || incoming[0].CallID != "c3" {
		t.Fatalf("expected exactly 1 notification for c3, got %+v", incoming)
	}
	if m.State() != CallStateRinging {
		t.Fatalf("expected ringing, got %s", m.State())
	}
}

func TestManagerAcceptSendsOutboundSignal(t *testing.T) {
	ch := newFakeChannel()
	m := newManager(t, ch, newFakeScheduler(), Callbacks{})
	defer m.Close()

	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("user-2", "user-1", "c1")})

	if err := m.Accept("c1"); err != nil {
		t.Fatal(err)
	}

	sent := ch.sentSignals()
	if len(sent) != 1 || sent[0].Op != ws.OpCallAccept {
		t.Fatalf("expected one call-accept, got %v", sent)
	}
}

func TestManagerInviteValidation(t *testing.T) {
	ch := newFakeChannel()
	m := newManager(t, ch, newFakeScheduler(), Callbacks{})
	defer m.Close()

	if err := m.Invite("user-1", models.CallTypeVideo); err == nil {
		t.Fatal("expected error calling yourself")
	}
	if err := m.Invite("user-2", models.CallType("hologram")); err == nil {
		t.Fatal("expected error for unknown call type")
	}
	if err := m.Invite("user-2", models.CallTypeAudio); err != nil {
		t.Fatalf("invite: %v", err)
	}

	sent := ch.sentSignals()
	if len(sent) != 1 || sent[0].Op != ws.OpCallInvite || sent[0].Signal.To != "user-2" {
		t.Fatalf("unexpected outbound invite: %v", sent)
	}
}

func TestManagerOutgoingCallbacks(t *testing.T) {
	ch := newFakeChannel()

	var mu sync.Mutex
	var accepted, rejected []models.CallSignal
	m := newManager(t, ch, newFakeScheduler(), Callbacks{
		OnOutgoingAccepted: func(s models.CallSignal) {
			mu.Lock()
			accepted = append(accepted, s)
			mu.Unlock()
		},
		OnOutgoingRejected: func(s models.CallSignal) {
			mu.Lock()
			rejected = append(rejected, s)
			mu.Unlock()
		},
	})
	defer m.Close()

	ch.Emit(SignalEvent{Kind: EventAccept, Signal: inviteSignal("user-2", "user-1", "c1")})
	ch.Emit(SignalEvent{Kind: EventBusy, Signal: inviteSignal("user-3", "user-1", "c2")})

	mu.Lock()
	defer mu.Unlock()
	if len(accepted) != 1 || accepted[0].CallID != "c1" {
		t.Fatalf("expected outgoing-accepted for c1, got %v", accepted)
	}
	if len(rejected) != 1 || rejected[0].CallID != "c2" {
		t.Fatalf("expected outgoing-rejected for c2, got %v", rejected)
	}
}

// Close her şeyi koşulsuz bırakır: abonelik, ring timer, retry timer.
func TestManagerCloseTearsDownEverything(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	m := newManager(t, ch, sched, Callbacks{})

	// Çalan bir arama + bekleyen bir reconnect timer'ı yarat.
	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("user-2", "user-1", "c1")})
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelError})

	if sched.pendingCount() != 2 {
		t.Fatalf("expected ring + retry timers pending, got %d", sched.pendingCount())
	}

	m.Close()
	m.Close() // idempotent

	if sched.pendingCount() != 0 {
		t.Fatal("close must cancel every pending timer")
	}
	if ch.unsubscribes != 1 {
		t.Fatalf("expected channel unsubscribed once, got %d", ch.unsubscribes)
	}

	// Simüle zaman ilerlese bile hiçbir timer iş yapamaz.
	sched.FireAll()
	if m.State() != CallStateIdle {
		t.Fatal("no timer may fire after teardown")
	}
}
