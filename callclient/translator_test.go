package callclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// fakeFetcher, scriptlenebilir ProfileFetcher.
type fakeFetcher struct {
	mu    sync.Mutex
	info  *DisplayInfo
	err   error
	calls int
}

func (f *fakeFetcher) FetchDisplayInfo(ctx context.Context, userID string) (*DisplayInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.info, f.err
}

func TestTranslatorProducesNotification(t *testing.T) {
	fetcher := &fakeFetcher{info: &DisplayInfo{Name: "Maria", AvatarURL: "https://cdn/m.jpg"}}
	tr := NewInviteTranslator("user-1", fetcher)
	defer tr.Close()

	n := tr.Translate(inviteSignal("user-2", "user-1", "call-1"))
	if n == nil {
		t.Fatal("expected notification")
	}
	if n.CallID != "call-1" || n.CallerID != "user-2" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.CallerName != "Maria" || n.CallerAvatarURL != "https://cdn/m.jpg" {
		t.Fatalf("expected enriched caller info, got %q / %q", n.CallerName, n.CallerAvatarURL)
	}
	if n.RoomName != models.CallRoomName("user-1", "user-2") {
		t.Fatalf("unexpected room name %q", n.RoomName)
	}
}

// Enrichment hatası bildirimi düşürmez — placeholder isimle devam eder.
func TestTranslatorEnrichmentFailureFallsBackToPlaceholder(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("profile store down")}
	tr := NewInviteTranslator("user-1", fetcher)
	defer tr.Close()

	n := tr.Translate(inviteSignal("user-2", "user-1", "call-1"))
	if n == nil {
		t.Fatal("notification must not be dropped on enrichment failure")
	}
	if n.CallerName != placeholderCallerName {
		t.Fatalf("expected placeholder name %q, got %q", placeholderCallerName, n.CallerName)
	}
	if n.CallerAvatarURL != "" {
		t.Fatalf("expected empty avatar, got %q", n.CallerAvatarURL)
	}
}

func TestTranslatorNilFetcherUsesPlaceholder(t *testing.T) {
	tr := NewInviteTranslator("user-1", nil)
	defer tr.Close()

	n := tr.Translate(inviteSignal("user-2", "user-1", "call-1"))
	if n == nil || n.CallerName != placeholderCallerName {
		t.Fatalf("expected placeholder notification, got %+v", n)
	}
}

// Yanlış adresli ve self-loop sinyaller asla yüzeye çıkmaz.
func TestTranslatorFiltersMisaddressedAndSelfSignals(t *testing.T) {
	tr := NewInviteTranslator("user-1", nil)
	defer tr.Close()

	signals := []models.CallSignal{
		inviteSignal("user-2", "user-9", "c1"), // başka kullanıcıya
		inviteSignal("user-1", "user-1", "c2"), // self-loop
		inviteSignal("user-2", "user-1", "c3"), // geçerli
	}

	var notifications int
	for _, s := range signals {
		if tr.Translate(s) != nil {
			notifications++
		}
	}
	if notifications != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", notifications)
	}
}

func TestTranslatorDropsMalformedSignals(t *testing.T) {
	tr := NewInviteTranslator("user-1", nil)
	defer tr.Close()

	malformed := []models.CallSignal{
		{To: "user-1", From: "user-2", Type: models.CallTypeAudio},                      // callId yok
		{To: "user-1", CallID: "c1", Type: models.CallTypeAudio},                        // from yok
		{To: "user-1", From: "user-2", CallID: "c1", Type: models.CallType("unknown")}, // bilinmeyen tür
	}
	for i, s := range malformed {
		if tr.Translate(s) != nil {
			t.Errorf("malformed signal %d should be dropped", i)
		}
	}
}

func TestTranslatorCachesDisplayInfo(t *testing.T) {
	fetcher := &fakeFetcher{info: &DisplayInfo{Name: "Maria"}}
	tr := NewInviteTranslator("user-1", fetcher)
	defer tr.Close()

	tr.Translate(inviteSignal("user-2", "user-1", "c1"))
	tr.Translate(inviteSignal("user-2", "user-1", "c2"))

	if fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch (second served from cache), got %d", fetcher.calls)
	}
}

// Başarısız fetch cache'lenmez — bir sonraki arama yeniden dener.
func TestTranslatorDoesNotCacheFailures(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("temporarily down")}
	tr := NewInviteTranslator("user-1", fetcher)
	defer tr.Close()

	tr.Translate(inviteSignal("user-2", "user-1", "c1"))

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.info = &DisplayInfo{Name: "Maria"}
	fetcher.mu.Unlock()

	n := tr.Translate(inviteSignal("user-2", "user-1", "c2"))
	if n.CallerName != "Maria" {
		t.Fatalf("expected recovered enrichment, got %q", n.CallerName)
	}
}
