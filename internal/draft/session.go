package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meltforce/trainload/internal/models"
)

// SessionDraft stores a models.SessionState as JSON under SessionKey.
type SessionDraft struct {
	Store *Store
}

// Load returns the saved draft, or nil when none exists.
func (d SessionDraft) Load(ctx context.Context) (*models.SessionState, error) {
	body, err := d.Store.Get(ctx, SessionKey)
	if err != nil || body == nil {
		return nil, err
	}
	var state models.SessionState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &state, nil
}

// Save replaces the saved draft.
func (d SessionDraft) Save(ctx context.Context, state *models.SessionState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return d.Store.Put(ctx, SessionKey, body)
}

// Clear removes the saved draft.
func (d SessionDraft) Clear(ctx context.Context) error {
	return d.Store.Delete(ctx, SessionKey)
}
