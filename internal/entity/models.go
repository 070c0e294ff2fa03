package entity

import (
	"fmt"
	"time"
)

// Sentinel texts stored on records before the subject answers or the analyzer runs.
const (
	NoResponseAnswer = "No response"
	PendingAnalysis  = "Not analyzed yet"

	// DefaultAnalysis is written onto records the model returned no result for.
	DefaultAnalysis = "No analysis result (default)"

	// NoDataSummary is returned when a session has no records to analyze.
	NoDataSummary = "There is no interview data to analyze."

	FailedAnswerText = "Answer generation failed"
)

// FailedQuestionText is the placeholder for the n-th (1-based) missing question.
func FailedQuestionText(n int) string {
	return fmt.Sprintf("Question %d generation failed", n)
}

// Dimension is one of the fixed per-session evaluation axes.
type Dimension string

const (
	DimensionSpecificity Dimension = "specificity"
	DimensionLogic       Dimension = "logic"
	DimensionRelevance   Dimension = "relevance"
	DimensionExpression  Dimension = "expression"
	DimensionExpertise   Dimension = "expertise"
)

// Dimensions lists every dimension in presentation order.
var Dimensions = []Dimension{
	DimensionSpecificity,
	DimensionLogic,
	DimensionRelevance,
	DimensionExpression,
	DimensionExpertise,
}

// DimensionScores maps every dimension to a 0-100 score.
type DimensionScores map[Dimension]float64

// ZeroDimensionScores returns a map with every dimension set to 0.
func ZeroDimensionScores() DimensionScores {
	return UniformDimensionScores(0)
}

// UniformDimensionScores broadcasts one value across all dimensions.
func UniformDimensionScores(v float64) DimensionScores {
	scores := make(DimensionScores, len(Dimensions))
	for _, d := range Dimensions {
		scores[d] = v
	}
	return scores
}

// InterviewRecord is one question within one interview session.
type InterviewRecord struct {
	ID              string    `json:"id"`
	SubjectID       string    `json:"subject_id"`
	SessionID       *string   `json:"session_id,omitempty"`
	Order           *int      `json:"order,omitempty"`
	Question        string    `json:"question"`
	ReferenceAnswer string    `json:"reference_answer"`
	UserAnswer      string    `json:"user_answer"`
	MediaRef        *string   `json:"media_ref,omitempty"`
	Category        string    `json:"category"`
	Analysis        string    `json:"analysis"`
	Score           *float64  `json:"score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QuestionTriple is one generated question with its exemplar answer.
type QuestionTriple struct {
	Question        string `json:"question"`
	ReferenceAnswer string `json:"answer"`
	Category        string `json:"category"`
}

// RecordPatch is the analyzer's update for one record.
type RecordPatch struct {
	RecordID string
	Analysis string
	Score    float64
}

// AnswerUpdate holds the fields changed by an answer submission.
type AnswerUpdate struct {
	UserAnswer string
	MediaRef   *string
	Category   *string
}

// SessionSummary is the derived, never persisted, view over one analyzed session.
type SessionSummary struct {
	SessionID       *string            `json:"session_id,omitempty"`
	Summary         string             `json:"summary"`
	DimensionScores DimensionScores    `json:"dimension_scores"`
	Records         []*InterviewRecord `json:"records"`
}

// SessionInfo is the listing metadata of one session.
type SessionInfo struct {
	SessionID   *string   `json:"session_id"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
	Category    string    `json:"category"`
}

// StartedSession is the result of materializing a generated question set.
type StartedSession struct {
	SessionID string             `json:"session_id"`
	Records   []*InterviewRecord `json:"records"`
}

// RecordOrder selects the ordering of FindRecords results.
type RecordOrder int

const (
	// OrderBySessionOrder sorts by question order, then creation time.
	OrderBySessionOrder RecordOrder = iota
	// OrderByCreatedAt sorts by creation time only (legacy view).
	OrderByCreatedAt
	// OrderByCreatedAtDesc returns the newest record first.
	OrderByCreatedAtDesc
)

// RecordFilter narrows FindRecords. SubjectID is always required.
type RecordFilter struct {
	SubjectID string
	SessionID *string
	Question  *string
	OrderBy   RecordOrder
}

// CompletionPurpose tags a model call for logging and canned responses.
type CompletionPurpose string

const (
	PurposeQuestionGeneration CompletionPurpose = "question_generation"
	PurposeSessionAnalysis    CompletionPurpose = "session_analysis"
)

// CompletionRequest is one call to a chat model.
type CompletionRequest struct {
	Purpose      CompletionPurpose
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float64
	TopP         float64
}

// ResultFormat is an export format of the analysis report.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}
