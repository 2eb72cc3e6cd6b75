// Package handlers — ProfileHandler: profil ve fotoğraf endpoint'leri.
//
// Route'lar:
//
//	GET    /api/users/me              → Me
//	PATCH  /api/users/me              → Update
//	POST   /api/users/me/photos       → UploadPhoto (multipart)
//	DELETE /api/users/me/photos/{id}  → DeletePhoto
//	GET    /api/users/{id}            → PublicProfile
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
)

// photoUploadMaxMemory, multipart form parse'ında bellekte tutulacak
// maksimum boyut. Aşan kısım geçici dosyaya yazılır.
const photoUploadMaxMemory = 8 << 20

// ProfileHandler, profil endpoint'lerini yöneten struct.
type ProfileHandler struct {
	profileService services.ProfileService
}

// NewProfileHandler, constructor.
func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Me godoc
// GET /api/users/me
// Kullanıcının kendi profilini fotoğraflarıyla birlikte döner.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	me, photos, err := h.profileService.GetOwn(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{
		"user":   me,
		"photos": photos,
	})
}

// Update godoc
// PATCH /api/users/me
// Partial update: body'de gelen alanlar güncellenir, gelmeyenler korunur.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.profileService.Update(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// UploadPhoto godoc
// POST /api/users/me/photos
// Content-Type: multipart/form-data, "file" alanı ile resim dosyası.
// MIME type / boyut / fotoğraf sayısı kontrolleri service katmanında.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := r.ParseMultipartForm(photoUploadMaxMemory); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	photo, err := h.profileService.UploadPhoto(r.Context(), user.ID, file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, photo)
}

// DeletePhoto godoc
// DELETE /api/users/me/photos/{id}
func (h *ProfileHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	photoID := r.PathValue("id")
	if photoID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "photo id is required")
		return
	}

	if err := h.profileService.DeletePhoto(r.Context(), user.ID, photoID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "photo deleted"})
}

// PublicProfile godoc
// GET /api/users/{id}
// Başka bir kullanıcının public profilini döner.
// Engelleme varsa (her iki yönde) 404 döner — engel sızdırılmaz.
func (h *ProfileHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	targetID := r.PathValue("id")
	if targetID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	profile, err := h.profileService.GetPublic(r.Context(), user.ID, targetID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, profile)
}
