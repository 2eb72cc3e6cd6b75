package callclient

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Backoff politikası sabitleri.
//
// Gecikme formülü: delay = min(maxRetryDelay, baseRetryDelay * 2^attempts)
// attempts 0'dan başlar ve her ardışık hatada artar. maxReconnectAttempts
// aşıldığında subscriber terminal failed durumuna geçer — sessizce
// yutulmaz, onTerminal callback'i ile yüzeye çıkar.
const (
	baseRetryDelay       = 1 * time.Second
	maxRetryDelay        = 30 * time.Second
	maxReconnectAttempts = 5
)

// ErrSignalingUnavailable, retry bütçesi tükendiğinde yüzeye çıkan
// terminal hata. Bu noktadan sonra otomatik retry yoktur — caller yeni
// bir subscriber yaratmalıdır.
var ErrSignalingUnavailable = errors.New("signaling unavailable: reconnect attempts exhausted")

// ReconnectingSubscriber, per-user signaling topic'ine canlı bir abonelik
// sürdürür ve geçici hatalardan bounded exponential backoff ile toparlanır.
//
// Sahiplik: alttaki kanal handle'ı ve retry timer'ı yalnızca bu struct'a
// aittir. Sahip oturum bittiğinde (logout, teardown) Stop çağrılmalıdır —
// Stop her exit path'te koşulsuz çalışacak şekilde tasarlanmıştır
// (idempotent, birden fazla çağrı güvenli).
type ReconnectingSubscriber struct {
	channel   SignalChannel
	scheduler Scheduler

	mu          sync.Mutex
	topic       string
	onEvent     func(SignalEvent)
	onTerminal  func(error)
	unsubscribe Unsubscribe
	cancelRetry CancelFunc
	attempts    int
	started     bool
	stopped     bool
	failed      bool
}

// NewReconnectingSubscriber, constructor. onTerminal nil olabilir —
// o durumda terminal hata sadece log'lanır.
func NewReconnectingSubscriber(channel SignalChannel, scheduler Scheduler, onTerminal func(error)) *ReconnectingSubscriber {
	return &ReconnectingSubscriber{
		channel:    channel,
		scheduler:  scheduler,
		onTerminal: onTerminal,
	}
}

// Start, topic'e abone olur. İdempotent: zaten başlamışsa no-op.
//
// Boş topic bir programlama hatasıdır — hemen hata döner, retry edilmez.
// Transport hataları ise Start'tan sonra backoff politikasıyla toparlanır.
func (s *ReconnectingSubscriber) Start(topic string, onEvent func(SignalEvent)) error {
	if topic == "" {
		return fmt.Errorf("subscriber topic is required")
	}
	if onEvent == nil {
		return fmt.Errorf("subscriber event handler is required")
	}

	s.mu.Lock()
	if s.started && !s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.topic = topic
	s.onEvent = onEvent
	s.started = true
	s.stopped = false
	s.failed = false
	s.attempts = 0
	s.mu.Unlock()

	return s.subscribe()
}

// subscribe, kanala abone olur.
//
// Mutex BURADA TUTULMAZ: kanal implementasyonları (WSChannel dahil)
// connecting/subscribed/error durum olaylarını Subscribe'ın İÇİNDEN,
// senkron olarak teslim edebilir — handleEvent mutex'i yeniden alır.
func (s *ReconnectingSubscriber) subscribe() error {
	s.mu.Lock()
	topic := s.topic
	s.mu.Unlock()

	unsub, err := s.channel.Subscribe(topic, s.handleEvent)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	s.mu.Lock()
	if s.stopped {
		// Subscribe sürerken Stop çağrıldı — yeni handle hemen kapatılır.
		s.mu.Unlock()
		unsub()
		return nil
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
	return nil
}

// handleEvent, kanaldan gelen her olayı işler.
//
// StateChange olayları backoff politikasını besler; sinyal olayları
// olduğu gibi onEvent'e iletilir (at-most-once per delivery — dedup yok).
func (s *ReconnectingSubscriber) handleEvent(event SignalEvent) {
	if event.Kind != EventStateChange {
		s.mu.Lock()
		handler := s.onEvent
		stopped := s.stopped
		s.mu.Unlock()
		if !stopped && handler != nil {
			handler(event)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.State {
	case ChannelSubscribed:
		// Bağlantı geri geldi — ardışık hata sayacı sıfırlanır.
		s.attempts = 0

	case ChannelError, ChannelTimedOut:
		s.scheduleReconnectLocked()
	}
}

// scheduleReconnectLocked, bir sonraki reconnect denemesini zamanlar.
// Bütçe tükendiyse terminal failed duruma geçer.
func (s *ReconnectingSubscriber) scheduleReconnectLocked() {
	if s.stopped || s.failed {
		return
	}
	if s.cancelRetry != nil {
		// Zaten bekleyen bir retry var — aynı kopuş penceresinde gelen
		// ikinci hata olayı yeni timer üretmez.
		return
	}

	if s.attempts >= maxReconnectAttempts {
		s.failed = true
		log.Printf("[callclient] signaling channel failed after %d reconnect attempts", s.attempts)
		if s.onTerminal != nil {
			go s.onTerminal(ErrSignalingUnavailable)
		}
		return
	}

	delay := backoffDelay(s.attempts)
	s.attempts++
	log.Printf("[callclient] channel error, reconnecting in %s (attempt %d/%d)", delay, s.attempts, maxReconnectAttempts)
	s.cancelRetry = s.scheduler.Schedule(delay, s.reconnect)
}

// reconnect, retry timer'ı dolduğunda çalışır.
func (s *ReconnectingSubscriber) reconnect() {
	s.mu.Lock()
	s.cancelRetry = nil
	if s.stopped || s.failed {
		s.mu.Unlock()
		return
	}
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	if err := s.subscribe(); err != nil {
		// Abonelik kurulamadı — transport hatasıyla eşdeğer, politika
		// bir sonraki denemeyi zamanlar. Subscribe içinden senkron bir
		// error olayı geldiyse cancelRetry guard'ı ikinci timer'ı önler.
		log.Printf("[callclient] resubscribe failed: %v", err)
		s.mu.Lock()
		s.scheduleReconnectLocked()
		s.mu.Unlock()
	}
}

// Failed, subscriber'ın terminal failed durumda olup olmadığını döner.
func (s *ReconnectingSubscriber) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Stop, bekleyen retry timer'ını iptal eder ve aboneliği kapatır.
// Birden fazla çağrı güvenlidir.
func (s *ReconnectingSubscriber) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	if s.cancelRetry != nil {
		s.cancelRetry()
		s.cancelRetry = nil
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// backoffDelay, n'inci ardışık hata için bekleme süresini hesaplar:
// min(maxRetryDelay, baseRetryDelay * 2^n)
func backoffDelay(n int) time.Duration {
	d := baseRetryDelay << uint(n)
	if d > maxRetryDelay || d <= 0 {
		return maxRetryDelay
	}
	return d
}
