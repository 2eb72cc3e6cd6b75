package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// SessionRepository, refresh token oturumları için interface.
//
// Oturumlar DB'de tutulur — çalınan token revoke edilebilir ve
// logout sadece ilgili oturumu siler.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser, kullanıcının tüm oturumlarını siler (şifre değişikliği, suspend).
	DeleteByUser(ctx context.Context, userID string) error
	// DeleteExpired, süresi dolan oturumları temizler. Periyodik çağrılır.
	DeleteExpired(ctx context.Context) (int, error)
}
