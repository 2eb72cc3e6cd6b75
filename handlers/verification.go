// Package handlers — VerificationHandler: email doğrulama endpoint'leri.
//
// Route'lar:
//
//	POST /api/auth/verify        → Verify
//	POST /api/auth/resend-code   → ResendCode
//
// Her iki endpoint de auth middleware gerektirir — kod, token sahibi
// kullanıcının hesabına bağlıdır.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// VerificationHandler, email doğrulama endpoint'lerini yöneten struct.
type VerificationHandler struct {
	verificationService services.VerificationService
}

// NewVerificationHandler, constructor.
func NewVerificationHandler(verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Verify godoc
// POST /api/auth/verify
// Body: { "code": "123456" }
// Kod doğruysa hesap verified olur.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verificationService.Verify(r.Context(), user.ID, req.Code); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// ResendCode godoc
// POST /api/auth/resend-code
// Yeni doğrulama kodu üretip gönderir. Eski kod geçersizleşir.
func (h *VerificationHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.verificationService.SendCode(r.Context(), user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}
