package callclient

import (
	"sync"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// fakeTask, fakeScheduler'a kaydedilmiş tek bir zamanlanmış görev.
type fakeTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

// fakeScheduler, zamanı manuel ilerletilen test scheduler'ı.
// Kaydedilen görevler Fire ile elle tetiklenir — gerçek timer yok,
// testler deterministik kalır.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{}
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &fakeTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task.fired {
			return false
		}
		task.cancelled = true
		return true
	}
}

// Fire, i'inci görevi çalıştırır (iptal edilmemişse).
func (s *fakeScheduler) Fire(i int) {
	s.mu.Lock()
	task := s.tasks[i]
	if task.cancelled || task.fired {
		s.mu.Unlock()
		return
	}
	task.fired = true
	fn := task.fn
	s.mu.Unlock()
	fn()
}

// FireAll, bekleyen tüm görevleri sırayla çalıştırır.
func (s *fakeScheduler) FireAll() {
	for i := range s.snapshot() {
		s.Fire(i)
	}
}

func (s *fakeScheduler) snapshot() []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*fakeTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// scheduledDelays, kaydedilmiş görevlerin gecikmelerini döner.
func (s *fakeScheduler) scheduledDelays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	delays := make([]time.Duration, len(s.tasks))
	for i, t := range s.tasks {
		delays[i] = t.delay
	}
	return delays
}

// pendingCount, iptal edilmemiş ve henüz çalışmamış görev sayısı.
func (s *fakeScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// sentSignal, fakeChannel.Send ile kaydedilen outbound sinyal.
type sentSignal struct {
	Op     string
	Signal models.CallSignal
}

// fakeChannel, scriptlenebilir SignalChannel implementasyonu.
// Testler handler'ı yakalayıp Emit ile olay enjekte eder.
type fakeChannel struct {
	mu           sync.Mutex
	handler      func(SignalEvent)
	sent         []sentSignal
	sendErr      error
	subscribeErr error
	subscribes   int
	unsubscribes int

	// subscribeEvents, Subscribe dönmeden ÖNCE handler'a senkron teslim
	// edilen olaylar — WSChannel'ın connecting/subscribed/error durum
	// olaylarını Subscribe içinden teslim etmesini taklit eder.
	subscribeEvents []SignalEvent
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{}
}

func (c *fakeChannel) Subscribe(topic string, handler func(SignalEvent)) (Unsubscribe, error) {
	c.mu.Lock()
	c.subscribes++
	events := c.subscribeEvents
	err := c.subscribeErr
	if err == nil {
		c.handler = handler
	}
	c.mu.Unlock()

	for _, ev := range events {
		handler(ev)
	}
	if err != nil {
		return nil, err
	}
	return func() {
		c.mu.Lock()
		c.unsubscribes++
		c.mu.Unlock()
	}, nil
}

func (c *fakeChannel) Send(op string, signal models.CallSignal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, sentSignal{Op: op, Signal: signal})
	return nil
}

// Emit, kanaldan gelen bir olayı simüle eder.
func (c *fakeChannel) Emit(event SignalEvent) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler != nil {
		handler(event)
	}
}

func (c *fakeChannel) sentSignals() []sentSignal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]sentSignal, len(c.sent))
	copy(out, c.sent)
	return out
}

// inviteSignal, testlerde kullanılan standart invite payload'ı.
func inviteSignal(from, to, callID string) models.CallSignal {
	return models.CallSignal{
		To:        to,
		From:      from,
		CallID:    callID,
		Type:      models.CallTypeVideo,
		Timestamp: time.Now().UnixMilli(),
	}
}
