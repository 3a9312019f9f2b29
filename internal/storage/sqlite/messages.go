package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) AddMessage(ctx context.Context, conversationID string, msg core.Message) error {
	query := `INSERT INTO messages (conversation_id, role, content) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, conversationID, msg.Role, msg.Content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessagesRepo) GetMessages(ctx context.Context, conversationID string, limit int) ([]core.Message, error) {
	// Fetch the LAST 'limit' messages by ordering DESC
	query := `SELECT role, content FROM messages WHERE conversation_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		var content sql.NullString

		if err := rows.Scan(&msg.Role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Content = content.String

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned messages newest first; reverse back to chronological
	// order for the prompt.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}
