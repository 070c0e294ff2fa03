package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/interview-backend/internal/api/middleware"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/pkg/formatter"
	"github.com/futig/interview-backend/internal/pkg/logger"
	"github.com/futig/interview-backend/internal/pkg/response"
	"github.com/futig/interview-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    InterviewUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func NewHandler(usecase InterviewUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:    usecase,
		validator:  validator,
		formatters: formatter.NewFactory(),
	}
}

// StartInterview handles GET|POST /api/interview/start - Generate a new question set
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartInterview")

	subjectID, ok := h.subject(ctx, w)
	if !ok {
		return
	}

	started, err := h.usecase.StartInterview(ctx, subjectID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "interview started",
		zap.String("session_id", started.SessionID),
		zap.Int("questions", len(started.Records)),
	)
	response.OK(w, toStartInterviewResponse(started))
}

// SubmitAnswer handles POST /api/interview/answer - Store the answer to one question
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitAnswer")

	subjectID, ok := h.subject(ctx, w)
	if !ok {
		return
	}

	var req entity.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSubmitAnswer(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed: "+err.Error(), err)
		return
	}

	record, err := h.usecase.SubmitAnswer(ctx, toSubmitAnswerInput(subjectID, &req))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.OK(w, toInterviewItemDTO(record))
}

// AnalyzeSession handles GET /api/interview/analysis - Analyze one session, or
// every record of the subject when no session id is given
func (h *Handler) AnalyzeSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AnalyzeSession")

	summary, ok := h.analyze(ctx, w, r)
	if !ok {
		return
	}

	response.OK(w, toAnalysisDTO(summary))
}

// AnalysisReport handles GET /api/interview/analysis/report - Analyze and
// export as markdown, pdf or docx
func (h *Handler) AnalysisReport(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AnalysisReport")

	format, err := h.validator.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter", err)
		return
	}
	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	summary, ok := h.analyze(ctx, w, r)
	if !ok {
		return
	}

	body, err := fmtr.Format(summary)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format report", err)
		return
	}

	name := "all"
	if summary.SessionID != nil {
		name = *summary.SessionID
	}

	ctxzap.Info(ctx, "analysis report rendered", zap.Int("bytes", len(body)))
	response.File(w, fmtr.ContentType(), fmt.Sprintf("interview-analysis-%s%s", name, fmtr.FileExtension()), body)
}

// LegacyAnalysis handles GET /api/analysis/info - Analyze every record of the subject
func (h *Handler) LegacyAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "LegacyAnalysis")

	subjectID, ok := h.subject(ctx, w)
	if !ok {
		return
	}

	summary, err := h.usecase.AnalyzeSession(ctx, subjectID, nil)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.OK(w, toAnalysisDTO(summary))
}

// ListSessions handles GET /api/interview/sessions - List sessions, newest first
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListSessions")

	subjectID, ok := h.subject(ctx, w)
	if !ok {
		return
	}

	sessions, err := h.usecase.ListSessions(ctx, subjectID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.OK(w, toSessionInfoDTOs(sessions))
}

// GetSession handles GET /api/interview/sessions/{session_id} - Get the records of one session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	subjectID, ok := h.subject(ctx, w)
	if !ok {
		return
	}

	if err := h.validator.ValidateSessionID(sessionID); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid session id", err)
		return
	}

	records, err := h.usecase.GetSession(ctx, subjectID, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.OK(w, entity.SessionDetailsDTO{
		SessionID:     sessionID,
		InterviewList: toInterviewItems(records),
	})
}

// analyze runs the analysis for the session named in the query. It writes the
// error response itself and reports whether the caller may continue.
func (h *Handler) analyze(ctx context.Context, w http.ResponseWriter, r *http.Request) (*entity.SessionSummary, bool) {
	subjectID, ok := h.subject(ctx, w)
	if !ok {
		return nil, false
	}

	sessionID := sessionQuery(r)
	if sessionID != nil {
		if err := h.validator.ValidateSessionID(*sessionID); err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid session id", err)
			return nil, false
		}
	}

	summary, err := h.usecase.AnalyzeSession(ctx, subjectID, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return nil, false
	}
	return summary, true
}

// sessionQuery reads session_id, or sessionId as older clients send it.
func sessionQuery(r *http.Request) *string {
	q := r.URL.Query()
	for _, key := range []string{"session_id", "sessionId"} {
		if v := q.Get(key); v != "" {
			return &v
		}
	}
	return nil
}

func (h *Handler) subject(ctx context.Context, w http.ResponseWriter) (string, bool) {
	subjectID, ok := middleware.SubjectFromContext(ctx)
	if !ok {
		h.respondError(ctx, w, http.StatusUnauthorized, "unauthorized", entity.ErrUnauthorized)
		return "", false
	}
	return subjectID, true
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Fail(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrRecordNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "interview record not found", err)
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "interview session not found", err)
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrUnauthorized):
		h.respondError(ctx, w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, entity.ErrModelUnavailable):
		h.respondError(ctx, w, http.StatusBadGateway, "language model unavailable", err)
	case errors.Is(err, entity.ErrPersistence):
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to save interview data", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
