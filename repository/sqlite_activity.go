package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

type sqliteActivityRepo struct {
	db database.TxQuerier
}

func NewSQLiteActivityRepo(db database.TxQuerier) ActivityRepository {
	return &sqliteActivityRepo{db: db}
}

func (r *sqliteActivityRepo) Create(ctx context.Context, entry *models.ActivityEntry) error {
	entry.ID = uuid.NewString()

	query := `
		INSERT INTO activity_log (id, type, user_id, target_id, detail)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.Type, entry.UserID, entry.TargetID, entry.Detail,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}

	return nil
}

func (r *sqliteActivityRepo) ListRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, type, user_id, target_id, detail, created_at
		FROM activity_log ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var entry models.ActivityEntry
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.UserID, &entry.TargetID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}

	return entries, nil
}
