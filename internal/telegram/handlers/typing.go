package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Clients drop the typing action after five seconds.
const typingInterval = 4 * time.Second

// showTyping keeps the "typing" status visible in chatID while a model call
// runs. The returned stop func must be called once the call returns.
func (h *InterviewHandler) showTyping(ctx context.Context, chatID int64) (stop func()) {
	log := ctxzap.Extract(ctx).With(zap.Int64("chat_id", chatID))
	ctx, cancel := context.WithCancel(ctx)

	send := func() {
		if _, err := h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			log.Warn("failed to send typing action", zap.Error(err))
		}
	}
	send()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				send()
			case <-ctx.Done():
				return
			}
		}
	}()

	return cancel
}
