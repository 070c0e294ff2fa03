package entity

import "time"

// SubmitAnswerRequest is the body of POST /api/interview/answer.
type SubmitAnswerRequest struct {
	SessionID  *string `json:"session_id,omitempty"`
	Question   string  `json:"question"`
	UserAnswer string  `json:"useranswer"`
	Video      *string `json:"video,omitempty"`
	Type       *string `json:"type,omitempty"`
}

// SubmitAnswerInput is an answer submission resolved to a subject.
type SubmitAnswerInput struct {
	SubjectID  string
	SessionID  *string
	Question   string
	UserAnswer string
	MediaRef   *string
	Category   *string
}

type QuestionDTO struct {
	ID       string `json:"id"`
	Order    int    `json:"order"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Type     string `json:"type"`
}

type StartInterviewResponse struct {
	SessionID    string        `json:"session_id"`
	QuestionList []QuestionDTO `json:"questionList"`
}

// InterviewItemDTO keeps the key names the web client already consumes.
type InterviewItemDTO struct {
	ID              string   `json:"id"`
	Order           *int     `json:"order,omitempty"`
	Question        string   `json:"question"`
	UserAnswer      string   `json:"useranswer"`
	ReferenceAnswer string   `json:"LLM gen answer"`
	Analysis        string   `json:"analysis"`
	Score           *float64 `json:"score"`
	Video           *string  `json:"video"`
	Type            string   `json:"type"`
}

type AnalysisDTO struct {
	SessionID     *string            `json:"session_id,omitempty"`
	InterviewList []InterviewItemDTO `json:"InterviewList"`
	Summary       string             `json:"summary"`
	Scores        map[string]float64 `json:"scores"`
}

type SessionInfoDTO struct {
	SessionID   *string   `json:"session_id"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
	Category    string    `json:"category"`
}

type SessionDetailsDTO struct {
	SessionID     string             `json:"session_id"`
	InterviewList []InterviewItemDTO `json:"InterviewList"`
}

// Envelope is the response wrapper shared by every /api route.
type Envelope struct {
	Result  string `json:"result"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const (
	EnvelopeResultOK   = "ok"
	EnvelopeResultFail = "fail"
)
