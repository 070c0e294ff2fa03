package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/telegram/keyboard"
	"github.com/futig/interview-backend/internal/telegram/render"
	"github.com/futig/interview-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu        sync.Mutex
	messages  []tgbotapi.MessageConfig
	documents []tgbotapi.DocumentConfig
	callbacks []tgbotapi.CallbackConfig
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		s.messages = append(s.messages, v)
	case tgbotapi.DocumentConfig:
		s.documents = append(s.documents, v)
	}
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		s.callbacks = append(s.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Text
	}
	return out
}

func (s *fakeSender) last() tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[len(s.messages)-1]
}

type fakeUsecase struct {
	started   *entity.StartedSession
	startErr  error
	submitted []entity.SubmitAnswerInput
	submitErr error
	analyzed  []string
	summary   *entity.SessionSummary
	sessions  []entity.SessionInfo
}

func (f *fakeUsecase) StartInterview(_ context.Context, subjectID string) (*entity.StartedSession, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	for _, rec := range f.started.Records {
		rec.SubjectID = subjectID
	}
	return f.started, nil
}

func (f *fakeUsecase) SubmitAnswer(_ context.Context, input entity.SubmitAnswerInput) (*entity.InterviewRecord, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, input)
	return &entity.InterviewRecord{Question: input.Question, UserAnswer: input.UserAnswer}, nil
}

func (f *fakeUsecase) AnalyzeSession(_ context.Context, subjectID string, sessionID *string) (*entity.SessionSummary, error) {
	f.analyzed = append(f.analyzed, subjectID+"/"+*sessionID)
	summary := *f.summary
	summary.SessionID = sessionID
	return &summary, nil
}

func (f *fakeUsecase) ListSessions(context.Context, string) ([]entity.SessionInfo, error) {
	return f.sessions, nil
}

func startedSession(n int) *entity.StartedSession {
	records := make([]*entity.InterviewRecord, n)
	for i := range records {
		records[i] = &entity.InterviewRecord{
			ID:       fmt.Sprintf("r-%d", i),
			Question: fmt.Sprintf("Question number %d?", i+1),
			Category: "technical",
		}
	}
	return &entity.StartedSession{SessionID: "s-1", Records: records}
}

func analyzedSummary() *entity.SessionSummary {
	score := 80.0
	return &entity.SessionSummary{
		Summary:         "Solid answers overall.",
		DimensionScores: entity.UniformDimensionScores(75),
		Records: []*entity.InterviewRecord{
			{Question: "Question number 1?", Analysis: "Clear.", Score: &score},
		},
	}
}

func newTestHandler(uc *fakeUsecase) (*InterviewHandler, *fakeSender) {
	sender := &fakeSender{}
	states := state.NewManager(state.NewMemoryStorage(time.Hour))
	return NewInterviewHandler(sender, states, uc, zap.NewNop()), sender
}

func chatMsg(text string) *Message {
	return &Message{ChatID: 100, UserID: 7, Text: text}
}

func callbackMsg(data string) *Message {
	return &Message{ChatID: 100, UserID: 7, CallbackID: "cb", CallbackData: data}
}

func TestSubjectID(t *testing.T) {
	assert.Equal(t, "tg:12345", SubjectID(12345))
}

func TestStartAsksFirstQuestion(t *testing.T) {
	uc := &fakeUsecase{started: startedSession(3)}
	h, sender := newTestHandler(uc)

	h.HandleCommand(context.Background(), chatMsg("/start"), "start")

	texts := sender.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, render.MsgGenerating, texts[0])
	assert.Equal(t, render.Started(3), texts[1])
	assert.Equal(t, "❓ Question 1 of 3 [technical]\n\nQuestion number 1?", texts[2])
	assert.Equal(t, "tg:7", uc.started.Records[0].SubjectID)
}

func TestFullConversation(t *testing.T) {
	uc := &fakeUsecase{started: startedSession(2), summary: analyzedSummary()}
	h, sender := newTestHandler(uc)
	ctx := context.Background()

	h.Start(ctx, chatMsg("/start"))
	h.Answer(ctx, chatMsg("  first answer "))
	assert.Contains(t, sender.last().Text, "Question 2 of 2")

	h.Answer(ctx, chatMsg("second answer"))
	last := sender.last()
	assert.Equal(t, render.MsgAllAnswered, last.Text)
	assert.Equal(t, keyboard.NewBuilder().AnalyzeKeyboard("s-1"), last.ReplyMarkup)

	require.Len(t, uc.submitted, 2)
	first := uc.submitted[0]
	assert.Equal(t, "tg:7", first.SubjectID)
	require.NotNil(t, first.SessionID)
	assert.Equal(t, "s-1", *first.SessionID)
	assert.Equal(t, "Question number 1?", first.Question)
	assert.Equal(t, "first answer", first.UserAnswer)
	require.NotNil(t, first.Category)
	assert.Equal(t, "technical", *first.Category)
	assert.Equal(t, "Question number 2?", uc.submitted[1].Question)

	h.HandleCallback(ctx, callbackMsg("analyze:s-1"))
	assert.Equal(t, []string{"tg:7/s-1"}, uc.analyzed)
	last = sender.last()
	assert.Contains(t, last.Text, "Solid answers overall.")
	assert.Equal(t, keyboard.NewBuilder().ReportKeyboard(), last.ReplyMarkup)

	h.HandleCallback(ctx, callbackMsg("report:markdown"))
	require.Len(t, sender.documents, 1)
	file, ok := sender.documents[0].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "interview-analysis-s-1.md", file.Name)
	assert.Contains(t, string(file.Bytes), "Solid answers overall.")
}

func TestAnswerAfterLastQuestionOffersAnalysis(t *testing.T) {
	uc := &fakeUsecase{started: startedSession(1)}
	h, sender := newTestHandler(uc)
	ctx := context.Background()

	h.Start(ctx, chatMsg("/start"))
	h.Answer(ctx, chatMsg("only answer"))
	h.Answer(ctx, chatMsg("extra"))

	assert.Equal(t, render.MsgAlreadyDone, sender.last().Text)
	assert.Len(t, uc.submitted, 1)
}

func TestAnswerWithoutInterview(t *testing.T) {
	uc := &fakeUsecase{}
	h, sender := newTestHandler(uc)

	h.Answer(context.Background(), chatMsg("hello"))

	assert.Equal(t, []string{render.MsgNoInterview}, sender.texts())
	assert.Empty(t, uc.submitted)
}

func TestBlankAnswerIsNotSubmitted(t *testing.T) {
	uc := &fakeUsecase{started: startedSession(2)}
	h, sender := newTestHandler(uc)
	ctx := context.Background()

	h.Start(ctx, chatMsg("/start"))
	h.Answer(ctx, chatMsg("   "))

	assert.Equal(t, render.MsgEmptyAnswer, sender.last().Text)
	assert.Empty(t, uc.submitted)
}

func TestSubmitFailureKeepsQuestion(t *testing.T) {
	uc := &fakeUsecase{started: startedSession(2)}
	h, sender := newTestHandler(uc)
	ctx := context.Background()

	h.Start(ctx, chatMsg("/start"))
	uc.submitErr = fmt.Errorf("update answer: %w: %w", entity.ErrPersistence, errors.New("db down"))
	h.Answer(ctx, chatMsg("answer"))
	assert.Equal(t, render.ErrStorage, sender.last().Text)

	uc.submitErr = nil
	h.Answer(ctx, chatMsg("answer again"))
	require.Len(t, uc.submitted, 1)
	assert.Equal(t, "Question number 1?", uc.submitted[0].Question)
}

func TestStartModelFailure(t *testing.T) {
	uc := &fakeUsecase{startErr: fmt.Errorf("generate questions: %w", entity.ErrModelUnavailable)}
	h, sender := newTestHandler(uc)

	h.Start(context.Background(), chatMsg("/start"))

	assert.Equal(t, render.ErrModel, sender.last().Text)
}

func TestAnalyzeCommandWithoutInterview(t *testing.T) {
	uc := &fakeUsecase{summary: analyzedSummary()}
	h, sender := newTestHandler(uc)

	h.HandleCommand(context.Background(), chatMsg("/analyze"), "analyze")

	assert.Equal(t, render.MsgNoInterview, sender.last().Text)
	assert.Empty(t, uc.analyzed)
}

func TestAnalyzeCallbackWithoutConversation(t *testing.T) {
	uc := &fakeUsecase{summary: analyzedSummary()}
	h, sender := newTestHandler(uc)
	ctx := context.Background()

	h.HandleCallback(ctx, callbackMsg("analyze:s-old"))
	assert.Equal(t, []string{"tg:7/s-old"}, uc.analyzed)

	h.HandleCallback(ctx, callbackMsg("report:markdown"))
	require.Len(t, sender.documents, 1)
	assert.Equal(t, "interview-analysis-s-old.md", sender.documents[0].File.(tgbotapi.FileBytes).Name)
}

func TestAnalyzeEmptySession(t *testing.T) {
	uc := &fakeUsecase{summary: &entity.SessionSummary{Summary: entity.NoDataSummary}}
	h, sender := newTestHandler(uc)

	h.HandleCallback(context.Background(), callbackMsg("analyze:s-none"))

	last := sender.last()
	assert.Equal(t, entity.NoDataSummary, last.Text)
	assert.Equal(t, keyboard.NewBuilder().StartKeyboard(), last.ReplyMarkup)
}

func TestReportBeforeAnalysis(t *testing.T) {
	h, sender := newTestHandler(&fakeUsecase{})

	h.HandleCallback(context.Background(), callbackMsg("report:pdf"))

	assert.Equal(t, render.MsgAnalyzeFirst, sender.last().Text)
	assert.Empty(t, sender.documents)
}

func TestHistory(t *testing.T) {
	sid := "s-1"
	uc := &fakeUsecase{sessions: []entity.SessionInfo{
		{SessionID: &sid, RecordCount: 3, CreatedAt: time.Now(), Category: "technical"},
	}}
	h, sender := newTestHandler(uc)

	h.HandleCommand(context.Background(), chatMsg("/history"), "history")
	assert.True(t, strings.HasPrefix(sender.last().Text, "🗂 Your interviews:"))

	uc.sessions = nil
	h.HandleCommand(context.Background(), chatMsg("/history"), "history")
	assert.Equal(t, render.MsgNoHistory, sender.last().Text)
}

func TestCancelDropsConversation(t *testing.T) {
	uc := &fakeUsecase{started: startedSession(2)}
	h, sender := newTestHandler(uc)
	ctx := context.Background()

	h.Start(ctx, chatMsg("/start"))
	h.HandleCommand(ctx, chatMsg("/cancel"), "cancel")
	assert.Equal(t, render.MsgCancelled, sender.last().Text)

	h.Answer(ctx, chatMsg("late answer"))
	assert.Equal(t, render.MsgNoInterview, sender.last().Text)
}

func TestUnknownInput(t *testing.T) {
	h, sender := newTestHandler(&fakeUsecase{})
	ctx := context.Background()

	h.HandleCommand(ctx, chatMsg("/foo"), "foo")
	assert.Equal(t, render.MsgUnknownCmd, sender.last().Text)

	h.HandleCallback(ctx, callbackMsg("garbage"))
	require.NotEmpty(t, sender.callbacks)
	assert.Equal(t, render.MsgUnknownAction, sender.callbacks[len(sender.callbacks)-1].Text)
}

func TestClassifyHandlerError(t *testing.T) {
	tests := []struct {
		err      error
		message  string
		severity ErrorSeverity
	}{
		{err: state.ErrNoConversation, message: render.MsgNoInterview, severity: SeverityWarning},
		{err: fmt.Errorf("x: %w", entity.ErrRecordNotFound), message: render.ErrQuestionLost, severity: SeverityWarning},
		{err: fmt.Errorf("x: %w", entity.ErrModelUnavailable), message: render.ErrModel, severity: SeverityError},
		{err: fmt.Errorf("x: %w", entity.ErrPersistence), message: render.ErrStorage, severity: SeverityCritical},
		{err: context.DeadlineExceeded, message: render.ErrTimeout, severity: SeverityError},
		{err: errors.New("other"), message: render.ErrGeneric, severity: SeverityError},
	}

	for _, tt := range tests {
		got := classifyHandlerError(tt.err)
		assert.Equal(t, tt.message, got.UserMessage, "error %v", tt.err)
		assert.Equal(t, tt.severity, got.Severity, "error %v", tt.err)
	}
}

func TestMessageSenderSplitsLongText(t *testing.T) {
	sender := &fakeSender{}
	ms := NewMessageSender(sender, zap.NewNop())
	markup := keyboard.NewBuilder().StartKeyboard()

	text := strings.Repeat(strings.Repeat("x", 99)+"\n", 100)
	require.NoError(t, ms.Send(1, text, markup))

	require.Len(t, sender.messages, 3)
	for _, m := range sender.messages {
		assert.LessOrEqual(t, len(m.Text), render.MaxMessageLength)
	}
	assert.Nil(t, sender.messages[0].ReplyMarkup)
	assert.Equal(t, markup, sender.messages[2].ReplyMarkup)
}
