package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/interview-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	warningInterval = 30 * time.Second
	idleBucketTTL   = time.Hour
)

// Sender delivers outgoing messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// userLimit tracks rate limit state for a single user
type userLimit struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Buckets of users idle for an hour are evicted.
type RateLimiterMiddleware struct {
	limits     *cache.Cache
	create     sync.Mutex
	maxTokens  float64
	refillRate float64 // tokens per second
	logger     *zap.Logger
	api        Sender
	now        func() time.Time
}

// NewRateLimiterMiddleware creates a limiter that admits requestsPerMinute on
// average with bursts of up to burstSize.
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits:     cache.New(idleBucketTTL, 10*time.Minute),
		maxTokens:  float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0,
		logger:     logger,
		api:        api,
		now:        time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID := updateIDs(update)
	if userID == 0 {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) bucket(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.create.Lock()
	defer rl.create.Unlock()

	if v, ok := rl.limits.Get(key); ok {
		rl.limits.SetDefault(key, v)
		return v.(*userLimit)
	}
	limit := &userLimit{
		tokens:     rl.maxTokens,
		lastRefill: rl.now(),
	}
	rl.limits.SetDefault(key, limit)
	return limit
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.bucket(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens += elapsed * rl.refillRate
	if limit.tokens > rl.maxTokens {
		limit.tokens = rl.maxTokens
	}
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	text := render.ErrRateLimited
	if warningCount >= 3 {
		text = render.ErrRateLimitedHard
	}

	if _, err := rl.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// updateIDs returns the sender and chat of a message or callback update
func updateIDs(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	return userID, chatID
}
