package callclient

import (
	"sync"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// IncomingCall, gelen bir aramanın recipient tarafındaki projeksiyonu.
//
// Caller display bilgisi best-effort enrichment'tan gelir — profil
// çekilemezse CallerName placeholder olur, bildirim asla düşmez.
type IncomingCall struct {
	CallID          string
	CallerID        string
	CallerName      string
	CallerAvatarURL string
	CallType        models.CallType
	RoomName        string
	ReceivedAt      time.Time
}

// SignalStore, "güncel gelen arama" için tek slotluk mailbox.
//
// Kuyruk DEĞİL: çözülmemiş bir bildirim dururken ikinci bir invite
// gelirse eskisinin üzerine yazılır (last-write-wins). Discard edilen
// invite için "missed call" kaydı üretilmez.
//
// Slot'u yalnızca LifecycleController mutasyona uğratır (single-writer);
// SignalStore sadece hücrenin kendisini thread-safe yapar.
type SignalStore struct {
	mu      sync.Mutex
	current *IncomingCall
}

// NewSignalStore, boş bir store döner.
func NewSignalStore() *SignalStore {
	return &SignalStore{}
}

// Set, slot'u yeni bildirimle değiştirir ve varsa öncekini döner.
func (s *SignalStore) Set(n *IncomingCall) (replaced *IncomingCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced = s.current
	s.current = n
	return replaced
}

// Get, slot'taki bildirimi döner (nil = bekleyen arama yok).
func (s *SignalStore) Get() *IncomingCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear, slot'u boşaltır ve varsa eski bildirimi döner.
func (s *SignalStore) Clear() *IncomingCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.current
	s.current = nil
	return old
}
