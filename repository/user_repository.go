// Package repository, veritabanı erişim katmanını tanımlar.
//
// Repository Pattern nedir?
// Veritabanı işlemlerini (CRUD) soyutlayan bir tasarım kalıbıdır.
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden çalışır.
//
// Neden interface?
// 1. Test: Mock repository yazarak DB olmadan test edebilirsin
// 2. Esneklik: SQLite'tan PostgreSQL'e geçmek istersen sadece yeni implementasyon yazarsın
// 3. SOLID (Dependency Inversion): Service, concrete struct'a değil interface'e bağımlı
package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
//
// context.Context, HTTP request'in iptal sinyalini taşır — client bağlantıyı
// koparırsa devam eden DB sorgusu da durur.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateProfile, profil alanlarını günceller (email/şifre hariç).
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, userID string, status models.UserStatus) error
	// UpdatePassword, yeni bcrypt hash'i yazar. AuthService.ChangePassword kullanır.
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
	SetVerified(ctx context.Context, userID string, verified bool) error
	SetSuspended(ctx context.Context, userID string, suspended bool) error
	// Discover, viewer'ın keşfet akışında görebileceği adayları döner.
	// Engellenmiş, beğenilmiş, doğrulanmamış, askıya alınmış ve profili
	// eksik kullanıcılar sonuçlara dahil edilmez.
	Discover(ctx context.Context, viewerID string, filters models.DiscoverFilters) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	CountVerified(ctx context.Context) (int, error)
	CountSuspended(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
