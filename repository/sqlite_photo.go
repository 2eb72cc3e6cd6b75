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

type sqlitePhotoRepo struct {
	db database.TxQuerier
}

func NewSQLitePhotoRepo(db database.TxQuerier) PhotoRepository {
	return &sqlitePhotoRepo{db: db}
}

func (r *sqlitePhotoRepo) Create(ctx context.Context, photo *models.Photo) error {
	photo.ID = uuid.NewString()

	query := `
		INSERT INTO photos (id, user_id, file_url, position)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		photo.ID, photo.UserID, photo.FileURL, photo.Position,
	).Scan(&photo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}

	return nil
}

func (r *sqlitePhotoRepo) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `SELECT id, user_id, file_url, position, created_at FROM photos WHERE id = ?`

	photo := &models.Photo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID, &photo.UserID, &photo.FileURL, &photo.Position, &photo.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

func (r *sqlitePhotoRepo) ListByUser(ctx context.Context, userID string) ([]models.Photo, error) {
	query := `
		SELECT id, user_id, file_url, position, created_at
		FROM photos WHERE user_id = ? ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var photo models.Photo
		if err := rows.Scan(&photo.ID, &photo.UserID, &photo.FileURL, &photo.Position, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}

	return photos, nil
}

func (r *sqlitePhotoRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

func (r *sqlitePhotoRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check photo delete result: %w", err)
	}
	if rows == 0 {
		return pkg.ErrNotFound
	}

	return nil
}
