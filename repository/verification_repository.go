package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// VerificationRepository, email doğrulama kodu kayıtları için interface.
type VerificationRepository interface {
	// Create, kullanıcının eski kodlarını silip yeni kodu yazar.
	// Aynı anda tek aktif kod olur — yeni kod istendiğinde eskisi geçersizleşir.
	Create(ctx context.Context, verification *models.EmailVerification) error
	GetByUser(ctx context.Context, userID string) (*models.EmailVerification, error)
	DeleteByUser(ctx context.Context, userID string) error
}
