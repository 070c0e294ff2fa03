package interview

import (
	"context"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const subject = "subject-1"

func newTestUsecase(model *scriptedModel, repo *memRepo, cb CallbackConnector) *InterviewUsecase {
	return NewUsecase(repo, model, &echoPrompts{}, cb, testConfig(), zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestStartInterviewStoresSession(t *testing.T) {
	repo := &memRepo{}
	model := &scriptedModel{replies: []string{labeledQuestions(2)}}
	uc := newTestUsecase(model, repo, nil)

	started, err := uc.StartInterview(context.Background(), subject)
	require.NoError(t, err)

	require.NotEmpty(t, started.SessionID)
	require.Len(t, started.Records, 3)
	require.Len(t, repo.records, 3)

	for i, rec := range started.Records {
		require.NotNil(t, rec.Order)
		assert.Equal(t, i, *rec.Order)
		require.NotNil(t, rec.SessionID)
		assert.Equal(t, started.SessionID, *rec.SessionID)
		assert.Equal(t, subject, rec.SubjectID)
		assert.Equal(t, entity.NoResponseAnswer, rec.UserAnswer)
		assert.Equal(t, entity.PendingAnalysis, rec.Analysis)
		assert.Nil(t, rec.Score)
	}
	assert.Equal(t, entity.FailedQuestionText(3), started.Records[2].Question)
}

func TestStartInterviewRequiresSubject(t *testing.T) {
	uc := newTestUsecase(&scriptedModel{}, &memRepo{}, nil)

	_, err := uc.StartInterview(context.Background(), "")

	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestStartInterviewModelFailureStoresNothing(t *testing.T) {
	repo := &memRepo{}
	model := &scriptedModel{err: assert.AnError}
	uc := newTestUsecase(model, repo, nil)

	_, err := uc.StartInterview(context.Background(), subject)

	assert.ErrorIs(t, err, entity.ErrModelUnavailable)
	assert.Empty(t, repo.records)
}

func TestSubmitAnswerBySession(t *testing.T) {
	repo := &memRepo{}
	uc := newTestUsecase(&scriptedModel{replies: []string{labeledQuestions(3)}}, repo, nil)

	started, err := uc.StartInterview(context.Background(), subject)
	require.NoError(t, err)

	updated, err := uc.SubmitAnswer(context.Background(), entity.SubmitAnswerInput{
		SubjectID:  subject,
		SessionID:  &started.SessionID,
		Question:   "Q2",
		UserAnswer: "I would call the rapid response team.",
		MediaRef:   strPtr("videos/q2.webm"),
		Category:   strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, started.Records[1].ID, updated.ID)
	assert.Equal(t, "I would call the rapid response team.", updated.UserAnswer)
	assert.Equal(t, "technical", updated.Category)

	stored := repo.byID(updated.ID)
	assert.Equal(t, "I would call the rapid response team.", stored.UserAnswer)
	require.NotNil(t, stored.MediaRef)
	assert.Equal(t, "videos/q2.webm", *stored.MediaRef)
	assert.Equal(t, "technical", stored.Category)

	for _, i := range []int{0, 2} {
		other := repo.byID(started.Records[i].ID)
		require.NotNil(t, other, "record %d", i)
		assert.Equal(t, entity.NoResponseAnswer, other.UserAnswer, "record %d", i)
		assert.Nil(t, other.MediaRef, "record %d", i)
		assert.Equal(t, "technical", other.Category, "record %d", i)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	repo := &memRepo{}
	uc := newTestUsecase(&scriptedModel{replies: []string{labeledQuestions(3)}}, repo, nil)

	started, err := uc.StartInterview(context.Background(), subject)
	require.NoError(t, err)

	_, err = uc.SubmitAnswer(context.Background(), entity.SubmitAnswerInput{
		SubjectID:  subject,
		SessionID:  &started.SessionID,
		Question:   "never asked",
		UserAnswer: "x",
	})

	assert.ErrorIs(t, err, entity.ErrRecordNotFound)
}

func TestSubmitAnswerLegacyLookupPicksNewest(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := &memRepo{records: []*entity.InterviewRecord{
		{ID: "old", SubjectID: subject, Question: "Q1", UserAnswer: entity.NoResponseAnswer, CreatedAt: base},
		{ID: "new", SubjectID: subject, Question: "Q1", UserAnswer: entity.NoResponseAnswer, CreatedAt: base.Add(time.Hour)},
		{ID: "other", SubjectID: "someone-else", Question: "Q1", CreatedAt: base.Add(2 * time.Hour)},
	}}
	uc := newTestUsecase(&scriptedModel{}, repo, nil)

	updated, err := uc.SubmitAnswer(context.Background(), entity.SubmitAnswerInput{
		SubjectID:  subject,
		Question:   "Q1",
		UserAnswer: "late answer",
	})
	require.NoError(t, err)

	assert.Equal(t, "new", updated.ID)
	assert.Equal(t, entity.NoResponseAnswer, repo.byID("old").UserAnswer)
	assert.Equal(t, "late answer", repo.byID("new").UserAnswer)
}

func TestSessionLifecycle(t *testing.T) {
	repo := &memRepo{}
	cb := &recordingCallback{}
	analysis := `{"items":[
		{"analysis":"Good.","score":90},
		{"analysis":"Okay.","score":70},
		{"analysis":"Missing.","score":10}
	],"summary":"Keep practicing.","overall_scores":{"specificity":60,"logic":70,"relevance":80,"expression":65,"expertise":55}}`
	model := &scriptedModel{replies: []string{labeledQuestions(3), analysis}}
	uc := newTestUsecase(model, repo, cb)
	ctx := context.Background()

	started, err := uc.StartInterview(ctx, subject)
	require.NoError(t, err)

	for _, q := range []string{"Q1", "Q2", "Q3"} {
		_, err := uc.SubmitAnswer(ctx, entity.SubmitAnswerInput{
			SubjectID:  subject,
			SessionID:  &started.SessionID,
			Question:   q,
			UserAnswer: "answer to " + q,
		})
		require.NoError(t, err)
	}

	summary, err := uc.AnalyzeSession(ctx, subject, &started.SessionID)
	require.NoError(t, err)

	require.NotNil(t, summary.SessionID)
	assert.Equal(t, started.SessionID, *summary.SessionID)
	assert.Equal(t, "Keep practicing.", summary.Summary)
	assert.Equal(t, 55.0, summary.DimensionScores[entity.DimensionExpertise])
	require.Len(t, summary.Records, 3)
	assert.Equal(t, "answer to Q3", summary.Records[2].UserAnswer)

	records, err := uc.GetSession(ctx, subject, started.SessionID)
	require.NoError(t, err)
	wantScores := []float64{90, 70, 10}
	for i, rec := range records {
		assert.Equal(t, "Q"+string(rune('1'+i)), rec.Question)
		require.NotNil(t, rec.Score)
		assert.Equal(t, wantScores[i], *rec.Score)
	}

	require.Len(t, cb.events, 1)
	assert.Equal(t, 3, cb.events[0].RecordCount)
	assert.Equal(t, 60.0, cb.events[0].Scores["specificity"])

	sessions, err := uc.ListSessions(ctx, subject)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].RecordCount)
}

func TestAnalyzeSessionPersistenceFailure(t *testing.T) {
	repo := &memRepo{}
	cb := &recordingCallback{}
	model := &scriptedModel{replies: []string{labeledQuestions(3), `{"items":[{"analysis":"a","score":50}]}`}}
	uc := newTestUsecase(model, repo, cb)
	ctx := context.Background()

	started, err := uc.StartInterview(ctx, subject)
	require.NoError(t, err)
	repo.failUpdates = true

	_, err = uc.AnalyzeSession(ctx, subject, &started.SessionID)

	assert.ErrorIs(t, err, entity.ErrPersistence)
	assert.Equal(t, 2, model.calls())
	assert.Equal(t, 1, repo.patchCalls)
	assert.Empty(t, cb.events)
	for _, rec := range repo.records {
		assert.Equal(t, entity.PendingAnalysis, rec.Analysis)
	}
}

func TestAnalyzeSessionModelFailureLeavesRecords(t *testing.T) {
	repo := &memRepo{}
	model := &scriptedModel{replies: []string{labeledQuestions(3)}}
	uc := newTestUsecase(model, repo, nil)
	ctx := context.Background()

	started, err := uc.StartInterview(ctx, subject)
	require.NoError(t, err)
	model.err = assert.AnError

	_, err = uc.AnalyzeSession(ctx, subject, &started.SessionID)

	assert.ErrorIs(t, err, entity.ErrModelUnavailable)
	assert.Equal(t, 0, repo.patchCalls)
}

func TestAnalyzeUnknownSession(t *testing.T) {
	repo := &memRepo{}
	model := &scriptedModel{}
	uc := newTestUsecase(model, repo, nil)

	summary, err := uc.AnalyzeSession(context.Background(), subject, strPtr("missing"))
	require.NoError(t, err)

	assert.Equal(t, entity.NoDataSummary, summary.Summary)
	assert.Equal(t, entity.ZeroDimensionScores(), summary.DimensionScores)
	assert.Empty(t, summary.Records)
	assert.Equal(t, 0, model.calls())
}

func TestAnalyzeLegacyRecordsWithoutSession(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := &memRepo{records: []*entity.InterviewRecord{
		{ID: "b", SubjectID: subject, Question: "second", CreatedAt: base.Add(time.Minute)},
		{ID: "a", SubjectID: subject, Question: "first", CreatedAt: base},
	}}
	model := &scriptedModel{replies: []string{"analysis: first one\nscore: 40\nanalysis: second one\nscore: 60"}}
	uc := newTestUsecase(model, repo, nil)

	summary, err := uc.AnalyzeSession(context.Background(), subject, nil)
	require.NoError(t, err)

	assert.Nil(t, summary.SessionID)
	require.Len(t, summary.Records, 2)
	assert.Equal(t, "a", summary.Records[0].ID)
	assert.Equal(t, "first one", repo.byID("a").Analysis)
	assert.Equal(t, "second one", repo.byID("b").Analysis)
	assert.Equal(t, entity.UniformDimensionScores(50), summary.DimensionScores)
}

func TestGetSessionNotFound(t *testing.T) {
	uc := newTestUsecase(&scriptedModel{}, &memRepo{}, nil)

	_, err := uc.GetSession(context.Background(), subject, "missing")

	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestListSessionsEmpty(t *testing.T) {
	uc := newTestUsecase(&scriptedModel{}, &memRepo{}, nil)

	sessions, err := uc.ListSessions(context.Background(), subject)

	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}
