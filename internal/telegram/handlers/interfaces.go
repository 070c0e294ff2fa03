package handlers

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// InterviewUsecase is the subset of interview operations the bot drives
type InterviewUsecase interface {
	StartInterview(ctx context.Context, subjectID string) (*entity.StartedSession, error)
	SubmitAnswer(ctx context.Context, input entity.SubmitAnswerInput) (*entity.InterviewRecord, error)
	AnalyzeSession(ctx context.Context, subjectID string, sessionID *string) (*entity.SessionSummary, error)
	ListSessions(ctx context.Context, subjectID string) ([]entity.SessionInfo, error)
}

// Sender delivers outgoing Telegram requests. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
