package models

import "time"

// EmailVerification, onboarding email doğrulama kodunu temsil eder.
//
// Kod DB'de SHA-256 hash olarak saklanır — DB sızıntısında plaintext
// kod ele geçmez. Kullanıcı kodu girdiğinde hash'lenip karşılaştırılır.
type EmailVerification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// VerifyEmailRequest, POST /api/auth/verify payload'ı.
type VerifyEmailRequest struct {
	Code string `json:"code"`
}
