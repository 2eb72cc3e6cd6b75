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

type sqliteMatchRepo struct {
	db database.TxQuerier
}

func NewSQLiteMatchRepo(db database.TxQuerier) MatchRepository {
	return &sqliteMatchRepo{db: db}
}

func (r *sqliteMatchRepo) CreateLike(ctx context.Context, like *models.Like) error {
	like.ID = uuid.NewString()

	query := `
		INSERT INTO likes (id, liker_id, liked_id)
		VALUES (?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		like.ID, like.LikerID, like.LikedID,
	).Scan(&like.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: already liked", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	return nil
}

func (r *sqliteMatchRepo) LikeExists(ctx context.Context, likerID, likedID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = ? AND liked_id = ?)`,
		likerID, likedID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

func (r *sqliteMatchRepo) CreateMatch(ctx context.Context, match *models.Match) error {
	match.ID = uuid.NewString()

	query := `
		INSERT INTO matches (id, user1_id, user2_id, conversation_id)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.ID, match.User1ID, match.User2ID, match.ConversationID,
	).Scan(&match.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: match already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

func (r *sqliteMatchRepo) GetMatchByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT id, user1_id, user2_id, conversation_id, created_at
		FROM matches WHERE id = ?`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID, &match.User1ID, &match.User2ID, &match.ConversationID, &match.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

func (r *sqliteMatchRepo) GetMatchByUsers(ctx context.Context, user1ID, user2ID string) (*models.Match, error) {
	// Sıralama garantisi yok — iki yönü de kontrol et
	query := `
		SELECT id, user1_id, user2_id, conversation_id, created_at
		FROM matches
		WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, user1ID, user2ID, user2ID, user1ID).Scan(
		&match.ID, &match.User1ID, &match.User2ID, &match.ConversationID, &match.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match by users: %w", err)
	}

	return match, nil
}

func (r *sqliteMatchRepo) ListMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	query := `
		SELECT id, user1_id, user2_id, conversation_id, created_at
		FROM matches
		WHERE user1_id = ? OR user2_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var match models.Match
		if err := rows.Scan(&match.ID, &match.User1ID, &match.User2ID, &match.ConversationID, &match.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}

func (r *sqliteMatchRepo) AreMatched(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM matches
			WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)
		)`,
		userA, userB, userB, userA,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check match: %w", err)
	}
	return exists, nil
}

func (r *sqliteMatchRepo) DeleteMatch(ctx context.Context, id string) error {
	// Önce match'i oku — like kayıtlarını da temizleyeceğiz
	match, err := r.GetMatchByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	// Like'lar silinmezse kullanıcılar keşfette tekrar karşılaşamaz
	_, err = r.db.ExecContext(ctx,
		`DELETE FROM likes
		 WHERE (liker_id = ? AND liked_id = ?) OR (liker_id = ? AND liked_id = ?)`,
		match.User1ID, match.User2ID, match.User2ID, match.User1ID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete match likes: %w", err)
	}

	return nil
}

func (r *sqliteMatchRepo) CountMatches(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
