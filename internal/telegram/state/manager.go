package state

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/interview-backend/internal/entity"
)

// Manager manages interview conversations
type Manager struct {
	storage Storage
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
	}
}

// Get returns the user's conversation or ErrNoConversation
func (m *Manager) Get(ctx context.Context, userID int64) (*Conversation, error) {
	conv, err := m.storage.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// Begin replaces any previous conversation with a fresh one for the started session
func (m *Manager) Begin(ctx context.Context, userID int64, started *entity.StartedSession) (*Conversation, error) {
	questions := make([]Question, len(started.Records))
	for i, rec := range started.Records {
		questions[i] = Question{
			Text:     rec.Question,
			Category: rec.Category,
		}
	}

	conv := &Conversation{
		UserID:    userID,
		SessionID: started.SessionID,
		Questions: questions,
	}
	if err := m.Save(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Save stores conv and refreshes its expiry
func (m *Manager) Save(ctx context.Context, conv *Conversation) error {
	conv.UpdatedAt = time.Now()
	if err := m.storage.Set(ctx, conv); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// Clear drops the user's conversation
func (m *Manager) Clear(ctx context.Context, userID int64) error {
	if err := m.storage.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}
