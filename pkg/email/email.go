// Package email, uygulama genelinde email gönderimi için soyutlama katmanı sağlar.
//
// EmailSender interface'i ile gönderim detayları soyutlanır (Dependency Inversion).
// Şu anki implementasyon Resend API kullanır — farklı bir sağlayıcıya geçmek
// için yeni bir implementasyon yazıp main.go'daki wire-up'ı değiştirmek yeterli.
//
// Bu paket dışarıya iki şey sunar:
// 1. EmailSender interface — service'ler buna bağımlı olur
// 2. NewResendSender constructor — main.go'da wire-up için
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender, email gönderimi için interface.
type EmailSender interface {
	// SendVerificationCode, onboarding sırasında 6 haneli doğrulama kodu gönderir.
	SendVerificationCode(ctx context.Context, toEmail, code string) error

	// SendPasswordReset, şifre sıfırlama linki içeren email gönderir.
	// token plaintext'tir (link'e gömülür); DB'de SHA-256 hash'i saklanır.
	SendPasswordReset(ctx context.Context, toEmail, token string) error
}

// resendSender, Resend API ile email gönderen EmailSender implementasyonu.
type resendSender struct {
	client    *resend.Client
	fromEmail string // Gönderici adresi (ör: hola@buscandoamoreterno.com)
	appURL    string // Uygulamanın public URL'i — linklerde kullanılır
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
// apiKey: Resend dashboard'dan alınan API key (re_xxxxxxxx formatında).
func NewResendSender(apiKey, fromEmail, appURL string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

// SendVerificationCode, hesap doğrulama kodunu gönderir.
// Kod 15 dakika geçerlidir — süre VerificationService'te kontrol edilir.
func (s *resendSender) SendVerificationCode(ctx context.Context, toEmail, code string) error {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background-color:#2b0a12;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#2b0a12;padding:40px 0;">
    <tr><td align="center">
      <table width="480" cellpadding="0" cellspacing="0" style="background-color:#3d1320;border-radius:8px;padding:40px;">
        <tr><td style="color:#ffffff;font-size:20px;font-weight:bold;padding-bottom:16px;">Buscando Amor Eterno</td></tr>
        <tr><td style="color:#e8c4cf;font-size:14px;padding-bottom:24px;">
          Tu código de verificación:
        </td></tr>
        <tr><td align="center" style="color:#ffffff;font-size:32px;font-weight:bold;letter-spacing:8px;padding-bottom:24px;">%s</td></tr>
        <tr><td style="color:#b88a99;font-size:12px;">El código expira en 15 minutos. Si no creaste una cuenta, ignora este correo.</td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, code)

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{toEmail},
		Subject: "Tu código de verificación — Buscando Amor Eterno",
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendPasswordReset, şifre sıfırlama email'i gönderir.
// Link formatı: {appURL}/reset-password?token={token}
func (s *resendSender) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background-color:#2b0a12;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#2b0a12;padding:40px 0;">
    <tr><td align="center">
      <table width="480" cellpadding="0" cellspacing="0" style="background-color:#3d1320;border-radius:8px;padding:40px;">
        <tr><td style="color:#ffffff;font-size:20px;font-weight:bold;padding-bottom:16px;">Buscando Amor Eterno</td></tr>
        <tr><td style="color:#e8c4cf;font-size:14px;padding-bottom:24px;">
          Recibimos una solicitud para restablecer tu contraseña. Haz clic en el botón para continuar:
        </td></tr>
        <tr><td align="center" style="padding-bottom:24px;">
          <a href="%s" style="background-color:#d6336c;color:#ffffff;text-decoration:none;padding:12px 32px;border-radius:6px;font-size:14px;font-weight:bold;display:inline-block;">Restablecer contraseña</a>
        </td></tr>
        <tr><td style="color:#b88a99;font-size:12px;">El enlace expira en 1 hora. Si no solicitaste esto, ignora este correo.</td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, resetLink)

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{toEmail},
		Subject: "Restablece tu contraseña — Buscando Amor Eterno",
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
