package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// BlockRepository, kullanıcı engelleme kayıtları için interface.
type BlockRepository interface {
	Create(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, blockerID, blockedID string) error
	// IsBlockedEither, iki kullanıcıdan herhangi biri diğerini
	// engellemiş mi diye bakar. Mesaj ve arama sinyalleri bu
	// kontrol ile kesilir.
	IsBlockedEither(ctx context.Context, userA, userB string) (bool, error)
	ListByBlocker(ctx context.Context, blockerID string) ([]models.Block, error)
}
