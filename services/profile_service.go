// Package services — ProfileService: profil ve fotoğraf yönetimi.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
)

// ProfileService, profil operasyonları için interface.
type ProfileService interface {
	// GetOwn, kullanıcının kendi profilini (email dahil) döner.
	GetOwn(ctx context.Context, userID string) (*models.User, []models.Photo, error)

	// GetPublic, başka bir kullanıcının public profilini döner.
	// viewer ile hedef arasında engelleme varsa ErrNotFound döner —
	// engellenen taraf engellendiğini anlamamalı.
	GetPublic(ctx context.Context, viewerID, targetID string) (*models.PublicProfile, error)

	// Update, profil alanlarını günceller (partial update).
	Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error)

	// UploadPhoto, yeni profil fotoğrafı yükler. MaxPhotos sınırı uygulanır.
	UploadPhoto(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*models.Photo, error)

	// DeletePhoto, kullanıcının kendi fotoğrafını siler.
	DeletePhoto(ctx context.Context, userID, photoID string) error
}

type profileService struct {
	userRepo  repository.UserRepository
	photoRepo repository.PhotoRepository
	blocks    BlockChecker
	uploadDir string
	maxSize   int64
}

func NewProfileService(
	userRepo repository.UserRepository,
	photoRepo repository.PhotoRepository,
	blocks BlockChecker,
	uploadDir string,
	maxSize int64,
) ProfileService {
	return &profileService{
		userRepo:  userRepo,
		photoRepo: photoRepo,
		blocks:    blocks,
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}
}

// allowedPhotoTypes, profil fotoğrafında izin verilen dosya türleri.
// Video ve döküman yok — sadece görüntü.
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (s *profileService) GetOwn(ctx context.Context, userID string) (*models.User, []models.Photo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""

	photos, err := s.photoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, photos, nil
}

func (s *profileService) GetPublic(ctx context.Context, viewerID, targetID string) (*models.PublicProfile, error) {
	blocked, err := s.blocks.IsBlockedEither(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, pkg.ErrNotFound
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.Suspended {
		return nil, pkg.ErrNotFound
	}

	photos, err := s.photoRepo.ListByUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	profile := user.ToPublicProfile()
	profile.Photos = photos
	return &profile, nil
}

func (s *profileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Partial update: nil alanlar mevcut değeri korur
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.BirthDate != nil {
		bd, parseErr := time.Parse("2006-01-02", *req.BirthDate)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid birth_date", pkg.ErrBadRequest)
		}
		user.BirthDate = &bd
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.Seeking != nil {
		user.Seeking = req.Seeking
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.Interests != nil {
		user.Interests = req.Interests
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UploadPhoto(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*models.Photo, error) {
	// Boyut kontrolü
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	// MIME type kontrolü — charset vb. parametreler ayıklanır
	contentType := header.Header.Get("Content-Type")
	mimeBase := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if !allowedPhotoTypes[mimeBase] {
		return nil, fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeBase)
	}

	// Fotoğraf limiti
	count, err := s.photoRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxPhotos {
		return nil, fmt.Errorf("%w: photo limit reached (%d)", pkg.ErrBadRequest, models.MaxPhotos)
	}

	// Unique dosya adı — çakışma ve güvenlik için {random_hex}_{original}
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random filename: %w", err)
	}
	diskFilename := hex.EncodeToString(randomBytes) + "_" + sanitizeFilename(header.Filename)

	destPath := filepath.Join(s.uploadDir, diskFilename)
	destFile, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	photo := &models.Photo{
		UserID:   userID,
		FileURL:  "/api/uploads/" + diskFilename,
		Position: count, // Yeni fotoğraf sona eklenir
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		os.Remove(destPath) // Hata durumunda dosyayı temizle
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	return photo, nil
}

func (s *profileService) DeletePhoto(ctx context.Context, userID, photoID string) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("%w: not your photo", pkg.ErrForbidden)
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		return err
	}

	// Disk dosyası best-effort silinir — DB kaydı zaten gitti
	if strings.HasPrefix(photo.FileURL, "/api/uploads/") {
		diskPath := filepath.Join(s.uploadDir, strings.TrimPrefix(photo.FileURL, "/api/uploads/"))
		os.Remove(diskPath)
	}

	return nil
}

// sanitizeFilename, dosya adını güvenli hale getirir.
// Path traversal saldırılarını önler (../../etc/passwd gibi).
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '\x00' {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		name = "unnamed"
	}

	return name
}
