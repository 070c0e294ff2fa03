package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/pkg/logger"
	"github.com/futig/interview-backend/internal/telegram/keyboard"
	"github.com/futig/interview-backend/internal/telegram/render"
	"github.com/futig/interview-backend/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// HandleCommand routes a bot command
func (h *InterviewHandler) HandleCommand(ctx context.Context, msg *Message, command string) {
	ctx = logger.WithSubject(ctx, SubjectID(msg.UserID))
	ctx = logger.AddFields(ctx, zap.String("command", command))
	ctxzap.Info(ctx, "command received")

	switch command {
	case "start":
		h.Start(ctx, msg)
	case "analyze":
		h.Analyze(ctx, msg, "")
	case "history":
		h.History(ctx, msg)
	case "cancel":
		h.Cancel(ctx, msg)
	case "help":
		_ = h.sender.Send(msg.ChatID, render.MsgHelp, nil)
	default:
		_ = h.sender.Send(msg.ChatID, render.MsgUnknownCmd, nil)
	}
}

// HandleCallback routes an inline button press
func (h *InterviewHandler) HandleCallback(ctx context.Context, msg *Message) {
	ctx = logger.WithSubject(ctx, SubjectID(msg.UserID))

	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err))
		h.sender.AnswerCallback(msg.CallbackID, render.MsgUnknownAction)
		return
	}
	h.sender.AnswerCallback(msg.CallbackID, "")

	switch data.Action {
	case keyboard.ActionStart:
		h.Start(ctx, msg)
	case keyboard.ActionAnalyze:
		h.Analyze(ctx, msg, data.Value)
	case keyboard.ActionReport:
		h.Report(ctx, msg, entity.ResultFormat(data.Value))
	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", data.Action))
		_ = h.sender.Send(msg.ChatID, render.MsgUnknownAction, nil)
	}
}

// Start generates a new question set and asks the first question
func (h *InterviewHandler) Start(ctx context.Context, msg *Message) {
	ctx = logger.WithAction(ctx, "StartInterview")

	_ = h.sender.Send(msg.ChatID, render.MsgGenerating, nil)

	stopTyping := h.showTyping(ctx, msg.ChatID)
	started, err := h.usecase.StartInterview(ctx, SubjectID(msg.UserID))
	stopTyping()
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	conv, err := h.states.Begin(ctx, msg.UserID, started)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	ctxzap.Info(ctx, "interview started",
		zap.String("session_id", conv.SessionID),
		zap.Int("question_count", len(conv.Questions)),
	)

	_ = h.sender.Send(msg.ChatID, render.Started(len(conv.Questions)), nil)
	h.askCurrent(msg.ChatID, conv)
}

// Answer submits a text reply as the answer to the current question
func (h *InterviewHandler) Answer(ctx context.Context, msg *Message) {
	ctx = logger.WithSubject(ctx, SubjectID(msg.UserID))
	ctx = logger.WithAction(ctx, "SubmitAnswer")

	conv, err := h.states.Get(ctx, msg.UserID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	question, ok := conv.Current()
	if !ok {
		_ = h.sender.Send(msg.ChatID, render.MsgAlreadyDone, h.keyboard.AnalyzeKeyboard(conv.SessionID))
		return
	}

	answer := strings.TrimSpace(msg.Text)
	if answer == "" {
		_ = h.sender.Send(msg.ChatID, render.MsgEmptyAnswer, nil)
		return
	}

	sessionID := conv.SessionID
	category := question.Category
	_, err = h.usecase.SubmitAnswer(ctx, entity.SubmitAnswerInput{
		SubjectID:  SubjectID(msg.UserID),
		SessionID:  &sessionID,
		Question:   question.Text,
		UserAnswer: answer,
		Category:   &category,
	})
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	conv.Cursor++
	if err := h.states.Save(ctx, conv); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	if conv.Done() {
		_ = h.sender.Send(msg.ChatID, render.MsgAllAnswered, h.keyboard.AnalyzeKeyboard(conv.SessionID))
		return
	}
	h.askCurrent(msg.ChatID, conv)
}

// Analyze scores the given session, or the current one when sessionID is
// empty, and offers the result as a report download.
func (h *InterviewHandler) Analyze(ctx context.Context, msg *Message, sessionID string) {
	ctx = logger.WithAction(ctx, "AnalyzeSession")

	conv, err := h.states.Get(ctx, msg.UserID)
	switch {
	case errors.Is(err, state.ErrNoConversation) && sessionID != "":
		conv = &state.Conversation{UserID: msg.UserID, SessionID: sessionID}
	case err != nil:
		h.HandleError(ctx, msg.ChatID, err)
		return
	case sessionID == "":
		sessionID = conv.SessionID
	}
	ctx = logger.AddFields(ctx, zap.String("session_id", sessionID))

	_ = h.sender.Send(msg.ChatID, render.MsgAnalyzing, nil)

	stopTyping := h.showTyping(ctx, msg.ChatID)
	summary, err := h.usecase.AnalyzeSession(ctx, SubjectID(msg.UserID), &sessionID)
	stopTyping()
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	conv.LastSummary = summary
	if err := h.states.Save(ctx, conv); err != nil {
		ctxzap.Warn(ctx, "failed to keep analysis for report download", zap.Error(err))
	}

	if len(summary.Records) == 0 {
		_ = h.sender.Send(msg.ChatID, summary.Summary, h.keyboard.StartKeyboard())
		return
	}
	_ = h.sender.Send(msg.ChatID, render.Analysis(summary), h.keyboard.ReportKeyboard())
}

// Report sends the last analysis as a document in the requested format
func (h *InterviewHandler) Report(ctx context.Context, msg *Message, format entity.ResultFormat) {
	ctx = logger.WithAction(ctx, "AnalysisReport")

	conv, err := h.states.Get(ctx, msg.UserID)
	if err != nil && !errors.Is(err, state.ErrNoConversation) {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}
	if conv == nil || conv.LastSummary == nil {
		_ = h.sender.Send(msg.ChatID, render.MsgAnalyzeFirst, nil)
		return
	}

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		ctxzap.Warn(ctx, "unsupported report format", zap.String("format", string(format)))
		_ = h.sender.Send(msg.ChatID, render.MsgUnknownAction, nil)
		return
	}

	body, err := fmtr.Format(conv.LastSummary)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, fmt.Errorf("format report: %w", err))
		return
	}

	name := "all"
	if sid := conv.LastSummary.SessionID; sid != nil {
		name = *sid
	}
	filename := fmt.Sprintf("interview-analysis-%s%s", name, fmtr.FileExtension())
	if err := h.sender.SendDocument(msg.ChatID, filename, body); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
	}
}

// History lists the user's sessions, newest first
func (h *InterviewHandler) History(ctx context.Context, msg *Message) {
	ctx = logger.WithAction(ctx, "ListSessions")

	sessions, err := h.usecase.ListSessions(ctx, SubjectID(msg.UserID))
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}
	if len(sessions) == 0 {
		_ = h.sender.Send(msg.ChatID, render.MsgNoHistory, h.keyboard.StartKeyboard())
		return
	}

	_ = h.sender.Send(msg.ChatID, render.History(sessions), nil)
}

// Cancel drops the conversation. Stored records are kept.
func (h *InterviewHandler) Cancel(ctx context.Context, msg *Message) {
	if err := h.states.Clear(ctx, msg.UserID); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}
	_ = h.sender.Send(msg.ChatID, render.MsgCancelled, h.keyboard.StartKeyboard())
}

func (h *InterviewHandler) askCurrent(chatID int64, conv *state.Conversation) {
	question, ok := conv.Current()
	if !ok {
		return
	}
	_ = h.sender.Send(chatID, render.Question(conv.Cursor+1, len(conv.Questions), question.Text, question.Category), nil)
}
