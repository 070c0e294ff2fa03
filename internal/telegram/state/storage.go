package state

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/patrickmn/go-cache"
)

// ErrNoConversation is returned when the user has no interview in progress.
var ErrNoConversation = errors.New("no active conversation")

// Question is one question of the running interview as shown in the chat.
type Question struct {
	Text     string
	Category string
}

// Conversation is the per-user chat state of one interview session.
type Conversation struct {
	UserID    int64
	SessionID string
	Questions []Question
	// Cursor is the index of the question awaiting an answer.
	Cursor int
	// LastSummary is the most recent analysis, kept for report downloads.
	LastSummary *entity.SessionSummary
	UpdatedAt   time.Time
}

// Current returns the question awaiting an answer.
func (c *Conversation) Current() (Question, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Questions) {
		return Question{}, false
	}
	return c.Questions[c.Cursor], true
}

// Done reports whether every question has been answered.
func (c *Conversation) Done() bool {
	return c.Cursor >= len(c.Questions)
}

// Storage persists conversations by Telegram user id.
type Storage interface {
	Get(ctx context.Context, userID int64) (*Conversation, error)
	Set(ctx context.Context, conv *Conversation) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStorage keeps conversations in process memory. Entries expire ttl
// after their last update.
type MemoryStorage struct {
	items *cache.Cache
	ttl   time.Duration
}

var _ Storage = &MemoryStorage{}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		items: cache.New(ttl, ttl/2+time.Minute),
		ttl:   ttl,
	}
}

func (s *MemoryStorage) Get(_ context.Context, userID int64) (*Conversation, error) {
	v, ok := s.items.Get(key(userID))
	if !ok {
		return nil, ErrNoConversation
	}
	conv := *v.(*Conversation)
	return &conv, nil
}

func (s *MemoryStorage) Set(_ context.Context, conv *Conversation) error {
	stored := *conv
	s.items.Set(key(conv.UserID), &stored, s.ttl)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID int64) error {
	s.items.Delete(key(userID))
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
