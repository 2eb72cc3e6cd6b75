package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

type sqliteMessageRepo struct {
	db database.TxQuerier
}

func NewSQLiteMessageRepo(db database.TxQuerier) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func (r *sqliteMessageRepo) Create(ctx context.Context, message *models.ChatMessage) error {
	message.ID = uuid.NewString()

	query := `
		INSERT INTO messages (id, conversation_id, sender_id, content)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		message.ID, message.ConversationID, message.SenderID, message.Content,
	).Scan(&message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *sqliteMessageRepo) ListByConversation(ctx context.Context, conversationID string, before string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = ?`
	args := []any{conversationID}

	// Cursor pagination: before verilmişse o mesajdan daha eskileri getir.
	// created_at eşitliğinde ID karşılaştırması deterministik sıra sağlar.
	if before != "" {
		query += ` AND (created_at, id) < (
			(SELECT created_at FROM messages WHERE id = ?), ?
		)`
		args = append(args, before, before)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
