package callclient

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSubscriberStartRequiresTopic(t *testing.T) {
	s := NewReconnectingSubscriber(newFakeChannel(), newFakeScheduler(), nil)

	if err := s.Start("", func(SignalEvent) {}); err == nil {
		t.Fatal("expected error for empty topic")
	}
	if err := s.Start("user-1", nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestSubscriberStartIsIdempotent(t *testing.T) {
	ch := newFakeChannel()
	s := NewReconnectingSubscriber(ch, newFakeScheduler(), nil)

	for i := 0; i < 3; i++ {
		if err := s.Start("user-1", func(SignalEvent) {}); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
	}
	if ch.subscribes != 1 {
		t.Fatalf("expected 1 subscribe, got %d", ch.subscribes)
	}
}

// WSChannel connecting/subscribed olaylarını Subscribe dönmeden teslim
// eder — Start bu senkron teslimatta bloklanmadan dönmelidir.
func TestSubscriberStartWithSynchronousStateDelivery(t *testing.T) {
	ch := newFakeChannel()
	ch.subscribeEvents = []SignalEvent{
		{Kind: EventStateChange, State: ChannelConnecting},
		{Kind: EventStateChange, State: ChannelSubscribed},
	}
	sched := newFakeScheduler()
	s := NewReconnectingSubscriber(ch, sched, nil)

	done := make(chan error, 1)
	go func() { done <- s.Start("user-1", func(SignalEvent) {}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return with synchronous state delivery")
	}
	if sched.pendingCount() != 0 {
		t.Fatalf("pending timers = %d, want 0", sched.pendingCount())
	}
}

// Dial hatasında WSChannel önce senkron bir error olayı teslim eder,
// sonra Subscribe'dan hata döner: Start hata raporlar, backoff politikası
// tek bir retry timer'ı kurar.
func TestSubscriberSynchronousDialFailureSchedulesRetry(t *testing.T) {
	ch := newFakeChannel()
	ch.subscribeErr = errors.New("dial tcp: connection refused")
	ch.subscribeEvents = []SignalEvent{
		{Kind: EventStateChange, State: ChannelConnecting},
		{Kind: EventStateChange, State: ChannelError},
	}
	sched := newFakeScheduler()
	s := NewReconnectingSubscriber(ch, sched, nil)

	done := make(chan error, 1)
	go func() { done <- s.Start("user-1", func(SignalEvent) {}) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Start() = nil, want dial error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return on synchronous dial failure")
	}

	delays := sched.scheduledDelays()
	if len(delays) != 1 || delays[0] != time.Second {
		t.Fatalf("scheduled delays = %v, want [1s]", delays)
	}
}

func TestSubscriberForwardsSignalEvents(t *testing.T) {
	ch := newFakeChannel()
	s := NewReconnectingSubscriber(ch, newFakeScheduler(), nil)

	var got []SignalEvent
	if err := s.Start("user-1", func(e SignalEvent) { got = append(got, e) }); err != nil {
		t.Fatal(err)
	}

	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("a", "user-1", "c1")})
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelSubscribed})
	ch.Emit(SignalEvent{Kind: EventEnd, Signal: inviteSignal("a", "user-1", "c1")})

	// StateChange olayları backoff politikasına gider, handler'a düşmez.
	if len(got) != 2 {
		t.Fatalf("expected 2 forwarded events, got %d", len(got))
	}
	if got[0].Kind != EventInvite || got[1].Kind != EventEnd {
		t.Fatalf("unexpected event kinds: %v, %v", got[0].Kind, got[1].Kind)
	}
}

// Backoff politikası: delay_n = min(30s, 1s * 2^n), n = 0..4.
// 6 ardışık hata → tam 5 zamanlanmış retry, 6.'da terminal failed.
func TestSubscriberBackoffScheduleAndTerminalFailure(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()

	var mu sync.Mutex
	var terminalErr error
	s := NewReconnectingSubscriber(ch, sched, func(err error) {
		mu.Lock()
		terminalErr = err
		mu.Unlock()
	})

	if err := s.Start("user-1", func(SignalEvent) {}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 6; i++ {
		ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelError})
		// Bekleyen retry'ı çalıştır ki bir sonraki hata "ardışık" sayılsın.
		if i < 5 {
			sched.Fire(i)
		}
	}

	delays := sched.scheduledDelays()
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	if len(delays) != len(want) {
		t.Fatalf("expected %d scheduled retries, got %d", len(want), len(delays))
	}
	for i, d := range delays {
		if d != want[i] {
			t.Errorf("retry %d: expected delay %s, got %s", i, want[i], d)
		}
	}

	if !s.Failed() {
		t.Fatal("expected terminal failed state after exhausting retries")
	}

	// onTerminal ayrı goroutine'de çağrılır.
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		err := terminalErr
		mu.Unlock()
		if err != nil {
			if !errors.Is(err, ErrSignalingUnavailable) {
				t.Fatalf("unexpected terminal error: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("terminal error callback never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscriberBackoffDelayCap(t *testing.T) {
	cases := []struct {
		n    int
		want time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // 32s > cap
		{10, 30 * time.Second}, // overflow güvenliği
	}
	for _, tc := range cases {
		if got := backoffDelay(tc.n); got != tc.want {
			t.Errorf("backoffDelay(%d) = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestSubscriberResetsAttemptsOnSubscribed(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	s := NewReconnectingSubscriber(ch, sched, nil)

	if err := s.Start("user-1", func(SignalEvent) {}); err != nil {
		t.Fatal(err)
	}

	// Üç hata, üç retry.
	for i := 0; i < 3; i++ {
		ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelError})
		sched.Fire(i)
	}
	// Bağlantı geri geldi — sayaç sıfırlanır.
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelSubscribed})

	// Yeni hata, backoff baştan başlar.
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelError})
	delays := sched.scheduledDelays()
	if last := delays[len(delays)-1]; last != 1*time.Second {
		t.Fatalf("expected reset to base delay 1s after subscribed, got %s", last)
	}
}

func TestSubscriberSingleOutstandingRetryTimer(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	s := NewReconnectingSubscriber(ch, sched, nil)

	if err := s.Start("user-1", func(SignalEvent) {}); err != nil {
		t.Fatal(err)
	}

	// Aynı kopuş penceresinde art arda iki hata olayı — tek timer.
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelError})
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelTimedOut})

	if n := len(sched.scheduledDelays()); n != 1 {
		t.Fatalf("expected exactly 1 scheduled retry, got %d", n)
	}
}

func TestSubscriberStopCancelsPendingRetry(t *testing.T) {
	ch := newFakeChannel()
	sched := newFakeScheduler()
	s := NewReconnectingSubscriber(ch, sched, nil)

	if err := s.Start("user-1", func(SignalEvent) {}); err != nil {
		t.Fatal(err)
	}
	ch.Emit(SignalEvent{Kind: EventStateChange, State: ChannelError})

	s.Stop()
	s.Stop() // idempotent

	if sched.pendingCount() != 0 {
		t.Fatal("expected pending retry timer to be cancelled on stop")
	}
	if ch.unsubscribes != 1 {
		t.Fatalf("expected 1 unsubscribe, got %d", ch.unsubscribes)
	}

	// Teardown sonrası timer çalışsa bile yeniden abone olunmaz.
	sched.FireAll()
	if ch.subscribes != 1 {
		t.Fatalf("expected no resubscribe after stop, got %d subscribes", ch.subscribes)
	}
}

func TestSubscriberIgnoresEventsAfterStop(t *testing.T) {
	ch := newFakeChannel()
	s := NewReconnectingSubscriber(ch, newFakeScheduler(), nil)

	var count int
	if err := s.Start("user-1", func(SignalEvent) { count++ }); err != nil {
		t.Fatal(err)
	}
	s.Stop()

	ch.Emit(SignalEvent{Kind: EventInvite, Signal: inviteSignal("a", "user-1", "c1")})
	if count != 0 {
		t.Fatalf("expected no events after stop, got %d", count)
	}
}
