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

type sqliteConversationRepo struct {
	db database.TxQuerier
}

func NewSQLiteConversationRepo(db database.TxQuerier) ConversationRepository {
	return &sqliteConversationRepo{db: db}
}

func (r *sqliteConversationRepo) Create(ctx context.Context, conversation *models.Conversation) error {
	conversation.ID = uuid.NewString()

	query := `
		INSERT INTO conversations (id, match_id, user1_id, user2_id)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		conversation.ID, conversation.MatchID,
		conversation.User1ID, conversation.User2ID,
	).Scan(&conversation.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: conversation already exists for match", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

func (r *sqliteConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `
		SELECT id, match_id, user1_id, user2_id, created_at, last_message_at
		FROM conversations WHERE id = ?`

	conv := &models.Conversation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&conv.ID, &conv.MatchID, &conv.User1ID, &conv.User2ID,
		&conv.CreatedAt, &conv.LastMessageAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conv, nil
}

func (r *sqliteConversationRepo) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	// Mesajı olan konuşmalar en üstte, en yeni mesaj önce.
	// Hiç mesajı olmayanlar oluşturulma tarihine göre sıralanır.
	query := `
		SELECT id, match_id, user1_id, user2_id, created_at, last_message_at
		FROM conversations
		WHERE user1_id = ? OR user2_id = ?
		ORDER BY COALESCE(last_message_at, created_at) DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(&conv.ID, &conv.MatchID, &conv.User1ID, &conv.User2ID,
			&conv.CreatedAt, &conv.LastMessageAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return conversations, nil
}

func (r *sqliteConversationRepo) TouchLastMessage(ctx context.Context, conversationID string) error {
	query := `UPDATE conversations SET last_message_at = datetime('now') WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, conversationID); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

func (r *sqliteConversationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
