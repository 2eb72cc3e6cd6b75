// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir. errors.New() ile sabit error
// değişkenleri tanımlarız, karşılaştırma errors.Is() ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Service katmanı bu sentinel'ları fmt.Errorf("%w: detay") ile sarar,
// handler katmanı pkg.Error() ile HTTP status'a çevirir.
package pkg

import "errors"

// Domain-level error'lar.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")

	// ErrSuspended, moderasyon tarafından askıya alınmış hesaplar için.
	// HTTP tarafında 403 döner — frontend bu mesajla ayrı ekran gösterir.
	ErrSuspended = errors.New("account suspended")

	// ErrRateLimited, login brute-force koruması tetiklendiğinde döner (429).
	ErrRateLimited = errors.New("too many requests")
)
