package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/pkg/logger"
	"github.com/futig/interview-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// InterviewUsecase implements the interview pipeline business logic
type InterviewUsecase struct {
	recordRepo repository.RecordRepository
	generator  *QuestionGenerator
	analyzer   *SessionAnalyzer
	aggregator *SessionAggregator
	callback   CallbackConnector
	logger     *zap.Logger
}

// NewUsecase creates a new interview use case. callback may be nil.
func NewUsecase(
	recordRepo repository.RecordRepository,
	model ModelClient,
	prompts PromptBuilder,
	callback CallbackConnector,
	cfg Config,
	logger *zap.Logger,
) *InterviewUsecase {
	return &InterviewUsecase{
		recordRepo: recordRepo,
		generator:  NewQuestionGenerator(model, prompts, cfg),
		analyzer:   NewSessionAnalyzer(model, prompts, cfg),
		aggregator: NewSessionAggregator(recordRepo),
		callback:   callback,
		logger:     logger,
	}
}

// StartInterview generates a question set and stores it as a new session.
func (uc *InterviewUsecase) StartInterview(ctx context.Context, subjectID string) (*entity.StartedSession, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject id: %w", entity.ErrMissingField)
	}

	triples, err := uc.generator.Generate(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	ctx = logger.AddFields(ctx, zap.String("session_id", sessionID))

	now := time.Now().UTC()
	records := make([]*entity.InterviewRecord, len(triples))
	for i, t := range triples {
		order := i
		records[i] = &entity.InterviewRecord{
			ID:              uuid.NewString(),
			SubjectID:       subjectID,
			SessionID:       &sessionID,
			Order:           &order,
			Question:        t.Question,
			ReferenceAnswer: t.ReferenceAnswer,
			UserAnswer:      entity.NoResponseAnswer,
			Category:        t.Category,
			Analysis:        entity.PendingAnalysis,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	if _, err := uc.recordRepo.CreateRecords(ctx, records); err != nil {
		return nil, storeError("create session records", err)
	}

	ctxzap.Info(ctx, "interview session started", zap.Int("questions", len(records)))

	return &entity.StartedSession{
		SessionID: sessionID,
		Records:   records,
	}, nil
}

// SubmitAnswer stores the subject's answer on the matching record. Without a
// session id the most recently created record with the same question text is
// used; that lookup is ambiguous when a question repeats across sessions.
func (uc *InterviewUsecase) SubmitAnswer(ctx context.Context, input entity.SubmitAnswerInput) (*entity.InterviewRecord, error) {
	if input.SubjectID == "" {
		return nil, fmt.Errorf("subject id: %w", entity.ErrMissingField)
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("question: %w", entity.ErrMissingField)
	}

	if input.SessionID == nil {
		ctxzap.Warn(ctx, "answer submitted without session id, using deprecated lookup by question text")
	} else {
		ctx = logger.AddFields(ctx, zap.String("session_id", *input.SessionID))
	}

	records, err := uc.recordRepo.FindRecords(ctx, entity.RecordFilter{
		SubjectID: input.SubjectID,
		SessionID: input.SessionID,
		Question:  &input.Question,
		OrderBy:   entity.OrderByCreatedAtDesc,
	})
	if err != nil {
		return nil, storeError("find answer record", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("find answer record: %w", entity.ErrRecordNotFound)
	}
	if len(records) > 1 {
		ctxzap.Warn(ctx, "answer lookup matched several records, using the newest",
			zap.Int("matches", len(records)),
		)
	}

	target := records[0]
	update := entity.AnswerUpdate{
		UserAnswer: input.UserAnswer,
		MediaRef:   input.MediaRef,
		Category:   input.Category,
	}
	if err := uc.recordRepo.UpdateAnswer(ctx, target.ID, update); err != nil {
		return nil, storeError("update answer", err)
	}

	updated := *target
	updated.UserAnswer = update.UserAnswer
	updated.MediaRef = update.MediaRef
	if update.Category != nil && *update.Category != "" {
		updated.Category = *update.Category
	}
	updated.UpdatedAt = time.Now().UTC()

	ctxzap.Info(ctx, "answer submitted", zap.String("record_id", target.ID))

	return &updated, nil
}

// AnalyzeSession evaluates one session, or every record of the subject when
// sessionID is nil, and persists all results in one batch. A failed write is
// reported as ErrPersistence; the model is not called again.
func (uc *InterviewUsecase) AnalyzeSession(ctx context.Context, subjectID string, sessionID *string) (*entity.SessionSummary, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject id: %w", entity.ErrMissingField)
	}

	filter := entity.RecordFilter{
		SubjectID: subjectID,
		SessionID: sessionID,
		OrderBy:   entity.OrderBySessionOrder,
	}
	if sessionID == nil {
		filter.OrderBy = entity.OrderByCreatedAt
	} else {
		ctx = logger.AddFields(ctx, zap.String("session_id", *sessionID))
	}

	records, err := uc.recordRepo.FindRecords(ctx, filter)
	if err != nil {
		return nil, storeError("load session records", err)
	}

	analysis, err := uc.analyzer.Analyze(ctx, records)
	if err != nil {
		return nil, err
	}

	if err := uc.recordRepo.UpdateRecords(ctx, analysis.Patches); err != nil {
		ctxzap.Error(ctx, "failed to persist analysis results", zap.Error(err))
		return nil, fmt.Errorf("persist analysis: %w: %w", entity.ErrPersistence, err)
	}

	summary := analysis.Summary
	summary.SessionID = sessionID

	ctxzap.Info(ctx, "session analyzed", zap.Int("records", len(summary.Records)))

	if uc.callback != nil && len(summary.Records) > 0 {
		uc.callback.SendAnalysisCompleted(ctx, &entity.CallbackAnalysisData{
			SubjectID:   subjectID,
			SessionID:   sessionID,
			RecordCount: len(summary.Records),
			Summary:     summary.Summary,
			Scores:      dimensionMap(summary.DimensionScores),
		})
	}

	return &summary, nil
}

// ListSessions returns the subject's sessions, newest first.
func (uc *InterviewUsecase) ListSessions(ctx context.Context, subjectID string) ([]entity.SessionInfo, error) {
	return uc.aggregator.ListSessions(ctx, subjectID)
}

// GetSession returns the records of one session in question order.
func (uc *InterviewUsecase) GetSession(ctx context.Context, subjectID, sessionID string) ([]*entity.InterviewRecord, error) {
	ctx = logger.AddFields(ctx, zap.String("session_id", sessionID))
	return uc.aggregator.GetSession(ctx, subjectID, sessionID)
}

func dimensionMap(scores entity.DimensionScores) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for d, v := range scores {
		out[string(d)] = v
	}
	return out
}
