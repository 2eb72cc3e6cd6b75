package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/config"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// ─── Fake'ler ───

// publishedEvent, fakeHub'a gönderilen tek bir event kaydı.
type publishedEvent struct {
	UserID string
	Event  ws.Event
}

// fakeHub, ws.EventPublisher'ın test implementasyonu. Ring timer
// callback'leri ayrı goroutine'den yazdığı için mutex korumalı.
type fakeHub struct {
	mu     sync.Mutex
	online map[string]bool
	events []publishedEvent
}

func newFakeHub(onlineUsers ...string) *fakeHub {
	h := &fakeHub{online: make(map[string]bool)}
	for _, id := range onlineUsers {
		h.online[id] = true
	}
	return h
}

func (h *fakeHub) BroadcastToUser(userID string, event ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, publishedEvent{UserID: userID, Event: event})
}

func (h *fakeHub) IsOnline(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online[userID]
}

func (h *fakeHub) GetOnlineUserIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.online))
	for id := range h.online {
		ids = append(ids, id)
	}
	return ids
}

func (h *fakeHub) CountOnline() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.online)
}

// eventsFor, belirli kullanıcıya belirli op ile giden event'lerin kopyasını döner.
func (h *fakeHub) eventsFor(userID, op string) []publishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []publishedEvent
	for _, ev := range h.events {
		if ev.UserID == userID && ev.Event.Op == op {
			out = append(out, ev)
		}
	}
	return out
}

// waitForEvents, timer goroutine'inden gelen asenkron event'leri bekler.
func (h *fakeHub) waitForEvents(t *testing.T, userID, op string, count int) []publishedEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if evs := h.eventsFor(userID, op); len(evs) >= count {
			return evs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d %q event(s) to user %s", count, op, userID)
	return nil
}

type fakeMatchChecker struct {
	matched bool
	err     error
}

func (f *fakeMatchChecker) AreMatched(_ context.Context, _, _ string) (bool, error) {
	return f.matched, f.err
}

type fakeBlockChecker struct {
	blocked bool
}

func (f *fakeBlockChecker) IsBlockedEither(_ context.Context, _, _ string) (bool, error) {
	return f.blocked, nil
}

type fakeUserGetter struct {
	users map[string]*models.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return user, nil
}

type fakeActivityLog struct {
	mu      sync.Mutex
	entries []*models.ActivityEntry
}

func (f *fakeActivityLog) Create(_ context.Context, entry *models.ActivityEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivityLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// callFixture, CallService'i fake dependency'lerle kurar.
type callFixture struct {
	hub      *fakeHub
	match    *fakeMatchChecker
	block    *fakeBlockChecker
	users    *fakeUserGetter
	activity *fakeActivityLog
	svc      CallService
}

func newCallFixture(ringTimeout time.Duration) *callFixture {
	f := &callFixture{
		hub:   newFakeHub("alice", "bob"),
		match: &fakeMatchChecker{matched: true},
		block: &fakeBlockChecker{},
		users: &fakeUserGetter{users: map[string]*models.User{
			"alice": {ID: "alice", Username: "alice"},
			"bob":   {ID: "bob", Username: "bob"},
		}},
		activity: &fakeActivityLog{},
	}
	f.svc = NewCallService(f.match, f.block, f.users, f.activity, f.hub, ringTimeout)
	return f
}

// invite, alice → bob aramasını başlatır ve call ID'sini döner.
func (f *callFixture) invite(t *testing.T) string {
	t.Helper()
	err := f.svc.Invite("alice", models.CallSignal{To: "bob", From: "alice", Type: models.CallTypeVideo})
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	call := f.svc.GetUserCall("alice")
	if call == nil {
		t.Fatal("GetUserCall(alice) = nil after invite")
	}
	return call.ID
}

// ─── Invite ───

func TestCallInviteDeliversSignalToBothParties(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()

	callID := f.invite(t)

	// Her iki tarafa da aynı call-invite gider — caller kendi isteğinin
	// echo'sunu alır ve UI "çalıyor" durumuna geçer.
	for _, userID := range []string{"alice", "bob"} {
		evs := f.hub.eventsFor(userID, ws.OpCallInvite)
		if len(evs) != 1 {
			t.Fatalf("invite events to %s = %d, want 1", userID, len(evs))
		}
		sig := evs[0].Event.Data.(models.CallSignal)
		if sig.CallID != callID || sig.From != "alice" || sig.To != "bob" {
			t.Errorf("invite signal to %s = %+v", userID, sig)
		}
	}

	// İki taraf da invite anında meşgul sayılır
	if call := f.svc.GetUserCall("bob"); call == nil || call.Status != models.CallStatusRinging {
		t.Errorf("GetUserCall(bob) = %+v, want ringing call", call)
	}
}

func TestCallInviteRejectsSelfCall(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()

	err := f.svc.Invite("alice", models.CallSignal{To: "alice", Type: models.CallTypeAudio})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Errorf("Invite(self) error = %v, want ErrBadRequest", err)
	}
}

func TestCallInviteRequiresMatch(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	f.match.matched = false

	err := f.svc.Invite("alice", models.CallSignal{To: "bob", Type: models.CallTypeVideo})
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Invite(unmatched) error = %v, want ErrForbidden", err)
	}
	if len(f.hub.eventsFor("bob", ws.OpCallInvite)) != 0 {
		t.Error("unmatched invite reached callee")
	}
}

func TestCallInviteRejectsBlockedPair(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	f.block.blocked = true

	err := f.svc.Invite("alice", models.CallSignal{To: "bob", Type: models.CallTypeVideo})
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Invite(blocked) error = %v, want ErrForbidden", err)
	}
}

func TestCallInviteRejectsSuspendedCallee(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	f.users.users["bob"].Suspended = true

	err := f.svc.Invite("alice", models.CallSignal{To: "bob", Type: models.CallTypeVideo})
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Invite(suspended callee) error = %v, want ErrForbidden", err)
	}
}

func TestCallInviteOfflineCalleeNotifiesCaller(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	f.hub.online["bob"] = false

	err := f.svc.Invite("alice", models.CallSignal{To: "bob", Type: models.CallTypeVideo})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("Invite(offline callee) error = %v, want ErrBadRequest", err)
	}

	evs := f.hub.eventsFor("alice", ws.OpCallReject)
	if len(evs) != 1 {
		t.Fatalf("reject events to caller = %d, want 1", len(evs))
	}
	sig := evs[0].Event.Data.(models.CallSignal)
	if sig.Reason != "offline" {
		t.Errorf("reject reason = %q, want %q", sig.Reason, "offline")
	}
	if f.svc.GetUserCall("alice") != nil {
		t.Error("offline invite left caller registered in a call")
	}
}

func TestCallInviteBusyCalleeSendsBusySignal(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	f.hub.online["carol"] = true
	f.users.users["carol"] = &models.User{ID: "carol", Username: "carol"}

	// alice ↔ bob çalıyor; carol bob'u arar
	f.invite(t)
	err := f.svc.Invite("carol", models.CallSignal{To: "bob", Type: models.CallTypeAudio})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("Invite(busy callee) error = %v, want ErrBadRequest", err)
	}

	busy := f.hub.eventsFor("carol", ws.OpCallBusy)
	if len(busy) != 1 {
		t.Fatal("busy caller did not receive call_busy")
	}
	// Busy payload'ı da CallSignal'dır — client tüm arama op'larını aynı
	// şekille decode eder
	sig := busy[0].Event.Data.(models.CallSignal)
	if sig.To != "carol" || sig.From != "bob" || sig.Reason != "busy" {
		t.Errorf("busy signal = %+v", sig)
	}
	// İlk arama etkilenmez
	if call := f.svc.GetUserCall("bob"); call == nil || call.CallerID != "alice" {
		t.Errorf("original call disturbed: %+v", call)
	}
}

func TestCallInviteRejectsBusyCaller(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	f.hub.online["carol"] = true
	f.users.users["carol"] = &models.User{ID: "carol", Username: "carol"}

	f.invite(t)
	err := f.svc.Invite("alice", models.CallSignal{To: "carol", Type: models.CallTypeAudio})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Errorf("Invite(busy caller) error = %v, want ErrBadRequest", err)
	}
}

// ─── Accept ───

func TestCallAcceptNotifiesBothAndActivates(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	callID := f.invite(t)

	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	for _, userID := range []string{"alice", "bob"} {
		if len(f.hub.eventsFor(userID, ws.OpCallAccept)) != 1 {
			t.Errorf("accept events to %s != 1", userID)
		}
	}
	if call := f.svc.GetUserCall("alice"); call == nil || call.Status != models.CallStatusActive {
		t.Errorf("call after accept = %+v, want active", call)
	}
	if f.activity.count() != 1 {
		t.Errorf("activity entries = %d, want 1", f.activity.count())
	}
}

func TestCallAcceptOnlyByCallee(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	callID := f.invite(t)

	if err := f.svc.Accept("alice", callID); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Accept(by caller) error = %v, want ErrForbidden", err)
	}
	if err := f.svc.Accept("bob", "no-such-call"); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("Accept(unknown call) error = %v, want ErrNotFound", err)
	}
}

func TestCallAcceptIsIdempotent(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	callID := f.invite(t)

	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}
	// İkinci accept no-op: hata yok, yeni broadcast yok
	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("second Accept() error = %v", err)
	}

	if n := len(f.hub.eventsFor("alice", ws.OpCallAccept)); n != 1 {
		t.Errorf("accept events to caller = %d, want 1", n)
	}
	if f.activity.count() != 1 {
		t.Errorf("activity entries = %d, want 1", f.activity.count())
	}
}

// ─── Reject / End ───

func TestCallRejectReasonDependsOnSide(t *testing.T) {
	// Callee reddi "rejected", caller iptali "cancelled" olarak raporlanır
	t.Run("callee", func(t *testing.T) {
		f := newCallFixture(time.Minute)
		defer f.svc.Shutdown()
		callID := f.invite(t)

		if err := f.svc.Reject("bob", callID); err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		evs := f.hub.eventsFor("alice", ws.OpCallReject)
		if len(evs) != 1 {
			t.Fatalf("reject events to caller = %d, want 1", len(evs))
		}
		if sig := evs[0].Event.Data.(models.CallSignal); sig.Reason != "rejected" {
			t.Errorf("reason = %q, want %q", sig.Reason, "rejected")
		}
	})

	t.Run("caller", func(t *testing.T) {
		f := newCallFixture(time.Minute)
		defer f.svc.Shutdown()
		callID := f.invite(t)

		if err := f.svc.Reject("alice", callID); err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		evs := f.hub.eventsFor("bob", ws.OpCallReject)
		if len(evs) != 1 {
			t.Fatalf("reject events to callee = %d, want 1", len(evs))
		}
		if sig := evs[0].Event.Data.(models.CallSignal); sig.Reason != "cancelled" {
			t.Errorf("reason = %q, want %q", sig.Reason, "cancelled")
		}
	})
}

func TestCallRejectClearsState(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	callID := f.invite(t)

	if err := f.svc.Reject("bob", callID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if f.svc.GetUserCall("alice") != nil || f.svc.GetUserCall("bob") != nil {
		t.Error("reject left users registered in a call")
	}
	// Üçüncü taraf reddedemez
	if err := f.svc.Reject("carol", callID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("Reject(cleared call) error = %v, want ErrNotFound", err)
	}
}

func TestCallEndNotifiesOtherParty(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	callID := f.invite(t)
	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	if err := f.svc.End("alice"); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	evs := f.hub.eventsFor("bob", ws.OpCallEnd)
	if len(evs) != 1 {
		t.Fatalf("end events to bob = %d, want 1", len(evs))
	}
	if f.svc.GetUserCall("alice") != nil {
		t.Error("End left caller registered in a call")
	}
	if err := f.svc.End("alice"); !errors.Is(err, pkg.ErrBadRequest) {
		t.Errorf("second End() error = %v, want ErrBadRequest", err)
	}
}

func TestCallHandleDisconnectEndsCall(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()
	callID := f.invite(t)
	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	f.svc.HandleDisconnect("bob")

	evs := f.hub.eventsFor("alice", ws.OpCallEnd)
	if len(evs) != 1 {
		t.Fatalf("end events to alice = %d, want 1", len(evs))
	}
	if sig := evs[0].Event.Data.(models.CallSignal); sig.Reason != "disconnect" {
		t.Errorf("reason = %q, want %q", sig.Reason, "disconnect")
	}

	// Aramada olmayan kullanıcı için no-op
	f.svc.HandleDisconnect("bob")
}

// ─── Çalma zaman aşımı ───

func TestCallRingTimeoutRejectsBothParties(t *testing.T) {
	f := newCallFixture(30 * time.Millisecond)
	defer f.svc.Shutdown()
	callID := f.invite(t)

	// Timer ateşlenince iki tarafa da "timeout" reject'i gider
	for _, userID := range []string{"alice", "bob"} {
		evs := f.hub.waitForEvents(t, userID, ws.OpCallReject, 1)
		sig := evs[0].Event.Data.(models.CallSignal)
		if sig.CallID != callID || sig.Reason != "timeout" {
			t.Errorf("timeout signal to %s = %+v", userID, sig)
		}
	}
	if f.svc.GetUserCall("alice") != nil {
		t.Error("expired call left caller registered")
	}
	// Süresi dolmuş arama artık kabul edilemez
	if err := f.svc.Accept("bob", callID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("Accept(expired) error = %v, want ErrNotFound", err)
	}
}

func TestCallAcceptDisarmsRingTimer(t *testing.T) {
	f := newCallFixture(30 * time.Millisecond)
	defer f.svc.Shutdown()
	callID := f.invite(t)

	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	// Timeout penceresi geçse bile reject üretilmez
	time.Sleep(80 * time.Millisecond)
	if n := len(f.hub.eventsFor("alice", ws.OpCallReject)); n != 0 {
		t.Errorf("reject events after accept = %d, want 0", n)
	}
	if call := f.svc.GetUserCall("alice"); call == nil || call.Status != models.CallStatusActive {
		t.Errorf("call = %+v, want active", call)
	}
}

func TestCallShutdownCancelsAllTimers(t *testing.T) {
	f := newCallFixture(30 * time.Millisecond)
	f.invite(t)

	f.svc.Shutdown()

	time.Sleep(80 * time.Millisecond)
	if n := len(f.hub.eventsFor("alice", ws.OpCallReject)); n != 0 {
		t.Errorf("reject events after shutdown = %d, want 0", n)
	}
	if f.svc.GetUserCall("alice") != nil {
		t.Error("Shutdown left call state behind")
	}
}

// ─── MediaService: token oluşturma aktif aramaya bağlıdır ───

func TestMediaTokenRequiresActiveCall(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()

	media := NewMediaService(f.svc, config.LiveKitConfig{
		APIKey:    "devkey",
		APISecret: "0123456789abcdef0123456789abcdef",
		URL:       "ws://localhost:7880",
	})

	// Arama yokken token verilmez
	if _, err := media.CallToken("alice", "alice", "missing"); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("CallToken(no call) error = %v, want ErrNotFound", err)
	}

	// Çalıyorken de verilmez — medya ancak accept sonrası kurulur
	callID := f.invite(t)
	if _, err := media.CallToken("alice", "alice", callID); !errors.Is(err, pkg.ErrBadRequest) {
		t.Errorf("CallToken(ringing call) error = %v, want ErrBadRequest", err)
	}
}

func TestMediaTokenForActiveCall(t *testing.T) {
	f := newCallFixture(time.Minute)
	defer f.svc.Shutdown()

	media := NewMediaService(f.svc, config.LiveKitConfig{
		APIKey:    "devkey",
		APISecret: "0123456789abcdef0123456789abcdef",
		URL:       "ws://localhost:7880",
	})

	callID := f.invite(t)
	if err := f.svc.Accept("bob", callID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	resp, err := media.CallToken("alice", "alice", callID)
	if err != nil {
		t.Fatalf("CallToken() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("empty livekit token")
	}
	if want := models.CallRoomName("alice", "bob"); resp.RoomName != want {
		t.Errorf("RoomName = %q, want %q", resp.RoomName, want)
	}
	if resp.URL != "ws://localhost:7880" {
		t.Errorf("URL = %q", resp.URL)
	}

	// Aramanın katılımcısı olmayan kullanıcı token alamaz
	if _, err := media.CallToken("carol", "carol", callID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("CallToken(outsider) error = %v, want ErrNotFound", err)
	}
}
