package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// PhotoRepository, profil fotoğrafı veritabanı işlemleri için interface.
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	// ListByUser, kullanıcının fotoğraflarını position sırasıyla döner.
	ListByUser(ctx context.Context, userID string) ([]models.Photo, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
}
