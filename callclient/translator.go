package callclient

import (
	"context"
	"log"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg/cache"
)

// placeholderCallerName, profil enrichment'ı başarısız olduğunda
// gösterilen jenerik isim. Bildirim bu durumda asla drop edilmez.
const placeholderCallerName = "Someone"

// enrichmentTimeout, profil çekme için üst sınır. Yavaş bir fetch
// bildirim pipeline'ını asılı bırakamaz — süre dolunca placeholder
// kullanılır.
const enrichmentTimeout = 3 * time.Second

// displayInfoTTL, enrichment cache'inin yaşam süresi. Arka arkaya gelen
// aramalar aynı caller için tekrar fetch yapmaz.
const displayInfoTTL = 5 * time.Minute

// DisplayInfo, bir kullanıcının bildirimde gösterilen kimliği.
type DisplayInfo struct {
	Name      string
	AvatarURL string
}

// ProfileFetcher, caller display bilgisini sağlayan collaborator.
// Başarısızlık non-fatal'dır — translator placeholder'a düşer.
type ProfileFetcher interface {
	FetchDisplayInfo(ctx context.Context, userID string) (*DisplayInfo, error)
}

// InviteTranslator, wire'dan gelen ham bir sinyali doğrulanmış bir
// IncomingCall bildirimine çevirir.
//
// Filtreler:
// - to alanı yerel kullanıcıyla eşleşmiyorsa → drop (yanlış adres)
// - from == to ise → drop (self-loop koruması)
// - zorunlu alanlar eksik / tip bilinmiyorsa → drop (bozuk payload)
//
// Drop bir hata değil, filtredir — sessizce atlanır.
type InviteTranslator struct {
	localUserID string
	fetcher     ProfileFetcher
	cache       *cache.TTLCache[string, DisplayInfo]
}

// NewInviteTranslator, constructor. fetcher nil olabilir — o durumda
// her bildirim placeholder isimle üretilir.
func NewInviteTranslator(localUserID string, fetcher ProfileFetcher) *InviteTranslator {
	return &InviteTranslator{
		localUserID: localUserID,
		fetcher:     fetcher,
		cache:       cache.New[string, DisplayInfo](displayInfoTTL, time.Minute),
	}
}

// Translate, invite sinyalini bildirime çevirir.
// Filtrelenen veya bozuk sinyaller için nil döner.
func (t *InviteTranslator) Translate(signal models.CallSignal) *IncomingCall {
	if err := signal.Validate(); err != nil {
		log.Printf("[callclient] dropping malformed signal: %v", err)
		return nil
	}
	if signal.To != t.localUserID {
		return nil
	}
	if signal.From == signal.To {
		return nil
	}

	info := t.displayInfo(signal.From)

	receivedAt := time.UnixMilli(signal.Timestamp)
	if signal.Timestamp == 0 {
		receivedAt = time.Now()
	}

	return &IncomingCall{
		CallID:          signal.CallID,
		CallerID:        signal.From,
		CallerName:      info.Name,
		CallerAvatarURL: info.AvatarURL,
		CallType:        signal.Type,
		RoomName:        models.CallRoomName(signal.From, signal.To),
		ReceivedAt:      receivedAt,
	}
}

// displayInfo, caller'ın display bilgisini best-effort çeker.
// Cache → fetch (bounded timeout) → placeholder sırasıyla düşer.
func (t *InviteTranslator) displayInfo(callerID string) DisplayInfo {
	if cached, ok := t.cache.Get(callerID); ok {
		return cached
	}

	if t.fetcher == nil {
		return DisplayInfo{Name: placeholderCallerName}
	}

	ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
	defer cancel()

	info, err := t.fetcher.FetchDisplayInfo(ctx, callerID)
	if err != nil || info == nil || info.Name == "" {
		if err != nil {
			log.Printf("[callclient] profile enrichment failed for %s: %v", callerID, err)
		}
		return DisplayInfo{Name: placeholderCallerName}
	}

	t.cache.Set(callerID, *info)
	return *info
}

// Close, enrichment cache'inin cleanup goroutine'ini durdurur.
func (t *InviteTranslator) Close() {
	t.cache.Close()
}
