package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// ReportRepository, şikayet kayıtları için interface.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	// ListByStatus, şikayetleri duruma göre filtreleyerek döner.
	// status boş ise tüm şikayetler döner.
	ListByStatus(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error)
	// Resolve, şikayeti kapatır ve resolved_at damgasını atar.
	Resolve(ctx context.Context, id string) error
	CountOpen(ctx context.Context) (int, error)
}

// ActivityRepository, append-only activity log için interface.
// Admin paneli platform hareketliliğini buradan izler.
type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}
