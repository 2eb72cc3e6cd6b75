package callclient

import "time"

// CancelFunc, zamanlanmış bir görevi iptal eder.
// true dönerse görev henüz çalışmadan iptal edilmiştir; false dönerse
// görev zaten çalışmış (veya çalışıyor) demektir. Birden fazla çağrı
// güvenlidir.
type CancelFunc func() bool

// Scheduler, iptal edilebilir zamanlanmış görev soyutlaması.
//
// Chained setTimeout tarzı örtük timer'lar yerine açık bir arayüz:
// "aynı anda en fazla bir bekleyen timer" invariant'ı testlerde sahte
// bir Scheduler ile doğrulanabilir hale gelir.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// realScheduler, time.AfterFunc üzerine kurulu üretim Scheduler'ı.
type realScheduler struct{}

// NewScheduler, üretim Scheduler'ını döner.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
