package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
)

type sqliteVerificationRepo struct {
	db database.TxQuerier
}

func NewSQLiteVerificationRepo(db database.TxQuerier) VerificationRepository {
	return &sqliteVerificationRepo{db: db}
}

func (r *sqliteVerificationRepo) Create(ctx context.Context, verification *models.EmailVerification) error {
	// Önce eski kodları temizle — tek aktif kod invariant'ı
	if err := r.DeleteByUser(ctx, verification.UserID); err != nil {
		return err
	}

	verification.ID = uuid.NewString()

	query := `
		INSERT INTO email_verifications (id, user_id, code_hash, expires_at)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		verification.ID, verification.UserID, verification.CodeHash, verification.ExpiresAt,
	).Scan(&verification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}

	return nil
}

func (r *sqliteVerificationRepo) GetByUser(ctx context.Context, userID string) (*models.EmailVerification, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, created_at
		FROM email_verifications WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1`

	v := &models.EmailVerification{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&v.ID, &v.UserID, &v.CodeHash, &v.ExpiresAt, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}

	return v, nil
}

func (r *sqliteVerificationRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete verifications: %w", err)
	}
	return nil
}
