package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
)

type sqliteBlockRepo struct {
	db database.TxQuerier
}

func NewSQLiteBlockRepo(db database.TxQuerier) BlockRepository {
	return &sqliteBlockRepo{db: db}
}

func (r *sqliteBlockRepo) Create(ctx context.Context, block *models.Block) error {
	block.ID = uuid.NewString()

	query := `
		INSERT INTO blocks (id, blocker_id, blocked_id)
		VALUES (?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		block.ID, block.BlockerID, block.BlockedID,
	).Scan(&block.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: already blocked", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create block: %w", err)
	}

	return nil
}

func (r *sqliteBlockRepo) Delete(ctx context.Context, blockerID, blockedID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM blocks WHERE blocker_id = ? AND blocked_id = ?`,
		blockerID, blockedID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check block delete result: %w", err)
	}
	if rows == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteBlockRepo) IsBlockedEither(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)
		)`,
		userA, userB, userB, userA,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return exists, nil
}

func (r *sqliteBlockRepo) ListByBlocker(ctx context.Context, blockerID string) ([]models.Block, error) {
	query := `
		SELECT id, blocker_id, blocked_id, created_at
		FROM blocks WHERE blocker_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, blockerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var block models.Block
		if err := rows.Scan(&block.ID, &block.BlockerID, &block.BlockedID, &block.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocks: %w", err)
	}

	return blocks, nil
}
