package handlers

import (
	"strconv"

	"github.com/futig/interview-backend/internal/pkg/formatter"
	"github.com/futig/interview-backend/internal/telegram/keyboard"
	"github.com/futig/interview-backend/internal/telegram/state"
	"go.uber.org/zap"
)

// Message represents a normalized Telegram message or button press
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// SubjectID is the interview subject a Telegram user is stored under
func SubjectID(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

// InterviewHandler runs the chat side of an interview: it asks the generated
// questions one at a time, submits each reply and renders the analysis.
type InterviewHandler struct {
	api        Sender
	sender     *MessageSender
	states     *state.Manager
	usecase    InterviewUsecase
	keyboard   *keyboard.Builder
	formatters *formatter.Factory
}

// NewInterviewHandler creates the interview chat handler
func NewInterviewHandler(
	api Sender,
	states *state.Manager,
	usecase InterviewUsecase,
	logger *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		api:        api,
		sender:     NewMessageSender(api, logger),
		states:     states,
		usecase:    usecase,
		keyboard:   keyboard.NewBuilder(),
		formatters: formatter.NewFactory(),
	}
}
