package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/tastybot/internal/core"
)

type StateRepo struct {
	db *sql.DB
}

func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// GetState returns the zero state for conversations that have none yet; a
// first turn must not fail just because nothing was persisted before.
func (r *StateRepo) GetState(ctx context.Context, conversationID string) (core.ConversationState, error) {
	query := `SELECT language, preferences, current_results, previous_results, updated_at
		FROM conversation_state WHERE conversation_id = ?`

	var state core.ConversationState
	var prefsJSON, currentJSON, previousJSON string

	row := r.db.QueryRowContext(ctx, query, conversationID)
	err := row.Scan(&state.Language, &prefsJSON, &currentJSON, &previousJSON, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ConversationState{}, nil
	}
	if err != nil {
		return core.ConversationState{}, fmt.Errorf("failed to query state: %w", err)
	}

	if err := json.Unmarshal([]byte(prefsJSON), &state.Preferences); err != nil {
		return core.ConversationState{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(currentJSON), &state.Current); err != nil {
		return core.ConversationState{}, fmt.Errorf("failed to unmarshal current results: %w", err)
	}
	if err := json.Unmarshal([]byte(previousJSON), &state.Previous); err != nil {
		return core.ConversationState{}, fmt.Errorf("failed to unmarshal previous results: %w", err)
	}

	return state, nil
}

func (r *StateRepo) SaveState(ctx context.Context, conversationID string, state core.ConversationState) error {
	prefsJSON, err := json.Marshal(state.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	currentJSON, err := json.Marshal(emptyAsList(state.Current))
	if err != nil {
		return fmt.Errorf("failed to marshal current results: %w", err)
	}
	previousJSON, err := json.Marshal(emptyAsList(state.Previous))
	if err != nil {
		return fmt.Errorf("failed to marshal previous results: %w", err)
	}

	query := `INSERT INTO conversation_state (conversation_id, language, preferences, current_results, previous_results, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			language = excluded.language,
			preferences = excluded.preferences,
			current_results = excluded.current_results,
			previous_results = excluded.previous_results,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query, conversationID, state.Language,
		string(prefsJSON), string(currentJSON), string(previousJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// emptyAsList keeps the stored JSON a valid array even for nil sets.
func emptyAsList(rs core.ResultSet) core.ResultSet {
	if rs == nil {
		return core.ResultSet{}
	}
	return rs
}
