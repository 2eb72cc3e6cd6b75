package models

import "time"

// Session, JWT refresh token oturumunu temsil eder.
//
// Refresh token'lar DB'de tutulur çünkü:
//   - Çalınan token iptal edilebilir (revoke)
//   - Kullanıcının tüm oturumları görülebilir
//   - Logout'ta sadece ilgili oturum silinir
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"` // API'ye gönderilmez
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
