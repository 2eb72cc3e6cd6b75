// Package callclient, arama sinyalleşme koordinatörünün client tarafıdır.
//
// Sunucunun realtime kanalını tüketen Go client: gelen call-invite
// sinyallerini doğrulanmış bildirimlere çevirir, arama yaşam döngüsünü
// (ringing → accepted → active → ended) tek bir state machine altında
// yönetir ve kanal koptuğunda bounded exponential backoff ile yeniden
// bağlanır.
//
// Bileşenler (yapraktan köke):
// - SignalChannel:          pub/sub soyutlaması (prod: WebSocket dialer)
// - Scheduler:              iptal edilebilir zamanlanmış görev soyutlaması
// - SignalStore:            tek slotluk "güncel gelen arama" hücresi
// - ReconnectingSubscriber: backoff'lu kanal aboneliği
// - InviteTranslator:       wire payload → doğrulanmış bildirim
// - LifecycleController:    arama state machine'i
// - Manager:                composition root
package callclient

import (
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// ChannelState, alttaki pub/sub kanalının bağlantı sağlığını temsil eder.
type ChannelState string

const (
	ChannelConnecting ChannelState = "connecting"
	ChannelSubscribed ChannelState = "subscribed"
	ChannelError      ChannelState = "channel_error"
	ChannelTimedOut   ChannelState = "timed_out"
	ChannelClosed     ChannelState = "closed"
)

// SignalEventKind, SignalEvent sum tipinin tag'i.
type SignalEventKind string

const (
	EventInvite      SignalEventKind = "invite"
	EventAccept      SignalEventKind = "accept"
	EventReject      SignalEventKind = "reject"
	EventEnd         SignalEventKind = "end"
	EventBusy        SignalEventKind = "busy"
	EventStateChange SignalEventKind = "state_change"
)

// SignalEvent, kanaldan gelen tek bir olay — tagged sum.
//
// Kind bir sinyal türüyse Signal doludur; EventStateChange ise State
// doludur. Duck-typed payload yerine typed sum: bozuk alanlar burada
// değil, translator sınırında elenip drop edilir.
type SignalEvent struct {
	Kind   SignalEventKind
	Signal models.CallSignal
	State  ChannelState
}

// Unsubscribe, aktif bir aboneliği kapatır. Birden fazla çağrı güvenlidir.
type Unsubscribe func()

// SignalChannel, per-user signaling topic'i üzerinde publish/subscribe
// soyutlaması.
//
// Subscribe, handler'ı teslim edilen her sinyal için bir kez çağırır —
// transport'tan gelen duplicate'ler olduğu gibi geçer, dedup katmanı yok.
// Bağlantı durumu değişimleri de aynı handler'a EventStateChange olarak
// akar.
type SignalChannel interface {
	Subscribe(topic string, handler func(SignalEvent)) (Unsubscribe, error)

	// Send, outbound bir sinyal yayınlar (call-invite / call-accept /
	// call-reject / call-end). op, ws paketi operation sabitlerinden biridir.
	Send(op string, signal models.CallSignal) error
}
