package handlers

import (
	"github.com/futig/interview-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	api    Sender
	logger *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(api Sender, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		api:    api,
		logger: logger,
	}
}

// Send sends text to the chat, split into several messages when it exceeds
// the Telegram limit. The markup is attached to the last part.
func (s *MessageSender) Send(chatID int64, text string, markup interface{}) error {
	parts := render.Split(text, render.MaxMessageLength)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		if markup != nil && i == len(parts)-1 {
			msg.ReplyMarkup = markup
		}

		if _, err := s.api.Send(msg); err != nil {
			s.logger.Error("failed to send message",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
				zap.Int("part", i+1),
			)
			return err
		}
	}

	return nil
}

// SendDocument uploads body as a file attachment
func (s *MessageSender) SendDocument(chatID int64, filename string, body []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: body})
	if _, err := s.api.Send(doc); err != nil {
		s.logger.Error("failed to send document",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
		)
		return err
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner
func (s *MessageSender) AnswerCallback(callbackID, text string) {
	if callbackID == "" {
		return
	}
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.logger.Warn("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
