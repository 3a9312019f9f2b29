package core

import (
	"context"
	"time"
)

// MessagesRepository is the append-only conversation log. Messages are never
// updated or deleted once written.
type MessagesRepository interface {
	AddMessage(ctx context.Context, conversationID string, msg Message) error
	GetMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
}

// StateRepository persists the per-conversation turn state that must survive
// between turns: the current and previous result sets, the carried
// preferences and the last detected language.
type StateRepository interface {
	GetState(ctx context.Context, conversationID string) (ConversationState, error)
	SaveState(ctx context.Context, conversationID string, state ConversationState) error
}

// ConversationState is what a turn leaves behind for the next one.
// Previous always holds the result set of the search before the most recent
// one; a turn that runs no search leaves both sets untouched.
type ConversationState struct {
	Language    string      `json:"language,omitempty"`
	Preferences Preferences `json:"preferences"`
	Current     ResultSet   `json:"current_results,omitempty"`
	Previous    ResultSet   `json:"previous_results,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

type StoredMessage struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
