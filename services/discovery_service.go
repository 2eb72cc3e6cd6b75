// Package services — DiscoveryService: keşfet akışı.
package services

import (
	"context"
	"fmt"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
)

// DiscoveryService, keşfet operasyonları için interface.
type DiscoveryService interface {
	// Discover, viewer'ın görüntüleyebileceği aday profilleri döner.
	// Viewer'ın hesabı doğrulanmamış veya profili eksikse hata döner —
	// keşfet yalnızca tamamlanmış profillere açıktır.
	Discover(ctx context.Context, viewerID string, filters models.DiscoverFilters) ([]models.PublicProfile, error)
}

type discoveryService struct {
	userRepo  repository.UserRepository
	photoRepo repository.PhotoRepository
}

func NewDiscoveryService(userRepo repository.UserRepository, photoRepo repository.PhotoRepository) DiscoveryService {
	return &discoveryService{
		userRepo:  userRepo,
		photoRepo: photoRepo,
	}
}

func (s *discoveryService) Discover(ctx context.Context, viewerID string, filters models.DiscoverFilters) ([]models.PublicProfile, error) {
	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !viewer.Verified {
		return nil, fmt.Errorf("%w: verify your email first", pkg.ErrForbidden)
	}
	if !viewer.ProfileComplete() {
		return nil, fmt.Errorf("%w: complete your profile first", pkg.ErrForbidden)
	}

	// Filtre verilmemişse viewer'ın seeking tercihi uygulanır
	if filters.Gender == "" && viewer.Seeking != nil {
		filters.Gender = *viewer.Seeking
	}

	candidates, err := s.userRepo.Discover(ctx, viewerID, filters)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.PublicProfile, 0, len(candidates))
	for i := range candidates {
		profile := candidates[i].ToPublicProfile()

		photos, photoErr := s.photoRepo.ListByUser(ctx, candidates[i].ID)
		if photoErr != nil {
			return nil, photoErr
		}
		profile.Photos = photos

		profiles = append(profiles, profile)
	}

	return profiles, nil
}
