// Package services — VerificationService: email doğrulama akışı.
//
// Onboarding akışı:
// 1. Register sonrası SendCode çağrılır — 6 haneli kod üretilir
// 2. Kod SHA-256 hash'lenip DB'ye yazılır, plaintext email ile gönderilir
// 3. Kullanıcı kodu girer → Verify → hash karşılaştırması → verified=true
//
// Kod 15 dakika geçerlidir. Yeni kod istendiğinde eskisi geçersizleşir
// (repository tek aktif kod invariant'ını korur).
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg/email"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
)

// codeTTL, doğrulama kodunun geçerlilik süresi.
const codeTTL = 15 * time.Minute

// VerificationService, email doğrulama operasyonları için interface.
type VerificationService interface {
	// SendCode, kullanıcıya yeni bir doğrulama kodu üretip gönderir.
	// Zaten doğrulanmış hesap için hata döner.
	SendCode(ctx context.Context, userID string) error

	// Verify, kullanıcının girdiği kodu kontrol eder.
	// Doğruysa hesap verified olur ve kod kaydı silinir.
	Verify(ctx context.Context, userID, code string) error
}

type verificationService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	sender           email.EmailSender
}

func NewVerificationService(
	userRepo repository.UserRepository,
	verificationRepo repository.VerificationRepository,
	sender email.EmailSender,
) VerificationService {
	return &verificationService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		sender:           sender,
	}
}

func (s *verificationService) SendCode(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return fmt.Errorf("%w: email already verified", pkg.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	verification := &models.EmailVerification{
		UserID:    userID,
		CodeHash:  hashCode(code),
		ExpiresAt: time.Now().UTC().Add(codeTTL),
	}
	if err := s.verificationRepo.Create(ctx, verification); err != nil {
		return err
	}

	if err := s.sender.SendVerificationCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	log.Printf("[verify] verification code sent to user %s", userID)
	return nil
}

func (s *verificationService) Verify(ctx context.Context, userID, code string) error {
	if len(code) != 6 {
		return fmt.Errorf("%w: code must be 6 digits", pkg.ErrBadRequest)
	}

	verification, err := s.verificationRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: no pending verification", pkg.ErrBadRequest)
		}
		return err
	}

	if time.Now().UTC().After(verification.ExpiresAt) {
		return fmt.Errorf("%w: verification code expired", pkg.ErrBadRequest)
	}

	// subtle.ConstantTimeCompare: timing attack'a karşı sabit süreli karşılaştırma
	expected := []byte(verification.CodeHash)
	actual := []byte(hashCode(code))
	if subtle.ConstantTimeCompare(expected, actual) != 1 {
		return fmt.Errorf("%w: invalid verification code", pkg.ErrBadRequest)
	}

	if err := s.userRepo.SetVerified(ctx, userID, true); err != nil {
		return err
	}

	if err := s.verificationRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	log.Printf("[verify] user %s verified email", userID)
	return nil
}

// generateCode, crypto/rand ile 6 haneli kod üretir.
// math/rand KULLANILMAZ — doğrulama kodu tahmin edilebilir olmamalı.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// hashCode, kodu DB'ye yazılacak SHA-256 hex hash'ine çevirir.
func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
