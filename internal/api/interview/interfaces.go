package interview

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
)

type InterviewUsecase interface {
	StartInterview(ctx context.Context, subjectID string) (*entity.StartedSession, error)
	SubmitAnswer(ctx context.Context, input entity.SubmitAnswerInput) (*entity.InterviewRecord, error)
	AnalyzeSession(ctx context.Context, subjectID string, sessionID *string) (*entity.SessionSummary, error)
	ListSessions(ctx context.Context, subjectID string) ([]entity.SessionInfo, error)
	GetSession(ctx context.Context, subjectID, sessionID string) ([]*entity.InterviewRecord, error)
}
