package handlers

import (
	"context"
	"errors"
	"net"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/telegram/render"
	"github.com/futig/interview-backend/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError is an error together with what the user is told about it.
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

type errorRule struct {
	target   error
	message  string
	log      string
	severity ErrorSeverity
}

// First match wins.
var errorRules = []errorRule{
	{state.ErrNoConversation, render.MsgNoInterview, "no active conversation", SeverityWarning},
	{entity.ErrRecordNotFound, render.ErrQuestionLost, "interview record not found", SeverityWarning},
	{entity.ErrMissingField, render.MsgEmptyAnswer, "empty answer", SeverityWarning},
	{entity.ErrModelUnavailable, render.ErrModel, "model unavailable", SeverityError},
	{entity.ErrPersistence, render.ErrStorage, "persistence failed", SeverityCritical},
	{context.DeadlineExceeded, render.ErrTimeout, "operation timed out", SeverityError},
	{context.Canceled, render.ErrTimeout, "operation cancelled", SeverityError},
}

func classifyHandlerError(err error) *HandlerError {
	for _, r := range errorRules {
		if errors.Is(err, r.target) {
			return &HandlerError{Err: err, UserMessage: r.message, LogMessage: r.log, Severity: r.severity}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &HandlerError{Err: err, UserMessage: render.ErrTimeout, LogMessage: "network timeout", Severity: SeverityError}
		}
		return &HandlerError{Err: err, UserMessage: render.ErrNetworkIssue, LogMessage: "network error", Severity: SeverityError}
	}

	return &HandlerError{Err: err, UserMessage: render.ErrGeneric, LogMessage: "handler error", Severity: SeverityError}
}

// HandleError logs err at its severity and tells the user what went wrong.
func (h *InterviewHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	herr := classifyHandlerError(err)
	fields := []zap.Field{
		zap.Error(herr.Err),
		zap.Int64("chat_id", chatID),
		zap.Stringer("severity", herr.Severity),
	}
	if herr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, herr.LogMessage, fields...)
	} else {
		ctxzap.Error(ctx, herr.LogMessage, fields...)
	}

	_ = h.sender.Send(chatID, herr.UserMessage, nil)
}
