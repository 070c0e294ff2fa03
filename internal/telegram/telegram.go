package telegram

import (
	"context"
	"fmt"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/telegram/bot"
	"github.com/futig/interview-backend/internal/telegram/handlers"
	"github.com/futig/interview-backend/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	storage state.Storage,
	interviewUC handlers.InterviewUsecase,
	logger *zap.Logger,
) (Bot, error) {
	states := state.NewManager(storage)

	b, err := bot.New(cfg, func(api handlers.Sender) *handlers.InterviewHandler {
		return handlers.NewInterviewHandler(api, states, interviewUC, logger)
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
