package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/telegram/handlers"
	"github.com/futig/interview-backend/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	interview   *handlers.InterviewHandler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	queues      *userQueues
	stopChan    chan struct{}
}

// New authorizes the bot token and assembles the middleware chain. newHandler
// builds the interview handler on top of the authorized API client.
func New(
	cfg *config.TelegramConfig,
	newHandler func(api handlers.Sender) *handlers.InterviewHandler,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &Bot{
		api:         api,
		cfg:         cfg,
		interview:   newHandler(api),
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		queues:      newUserQueues(),
		stopChan:    make(chan struct{}),
	}, nil
}

// Start starts long polling in the background
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops polling and waits for in-flight updates up to the shutdown timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.queues.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.queues.Submit(updateUserID(update), func() {
				b.handleUpdateWithMiddleware(ctx, update)
			})
		}
	}
}

// handleUpdateWithMiddleware runs rate limiting, then logging, then recovery
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes one update. processUpdates queues updates per user in
// arrival order, so a reply is always submitted against the question that
// was current when the user sent it.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg, command, ok := normalize(update)
	if !ok {
		return
	}

	switch {
	case msg.CallbackID != "":
		b.interview.HandleCallback(ctx, msg)
	case command != "":
		b.interview.HandleCommand(ctx, msg, command)
	default:
		b.interview.Answer(ctx, msg)
	}
}

// updateUserID keys an update to its sender. Updates without one share key 0.
func updateUserID(update tgbotapi.Update) int64 {
	if msg, _, ok := normalize(update); ok {
		return msg.UserID
	}
	return 0
}

// normalize flattens a message or callback update. command is set for bot commands.
func normalize(update tgbotapi.Update) (msg *handlers.Message, command string, ok bool) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.From == nil || q.Message == nil || q.Message.Chat == nil {
			return nil, "", false
		}
		return &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}, "", true
	case update.Message != nil:
		m := update.Message
		if m.From == nil || m.Chat == nil {
			return nil, "", false
		}
		return &handlers.Message{
			ChatID:    m.Chat.ID,
			UserID:    m.From.ID,
			MessageID: m.MessageID,
			Text:      m.Text,
		}, m.Command(), true
	default:
		return nil, "", false
	}
}
