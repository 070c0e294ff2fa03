package entity

// CallbackEventType represents the type of callback event
type CallbackEventType string

const (
	CallbackEventTypeAnalysisCompleted CallbackEventType = "analysisCompleted"
)

// CallbackEvent represents a callback event
type CallbackEvent struct {
	Event     CallbackEventType `json:"event"`
	Timestamp string            `json:"timestamp"` // ISO-8601 UTC
	Data      any               `json:"data"`
}

// CallbackAnalysisData is the payload of an analysisCompleted event
type CallbackAnalysisData struct {
	SubjectID   string             `json:"subject_id"`
	SessionID   *string            `json:"session_id,omitempty"`
	RecordCount int                `json:"record_count"`
	Summary     string             `json:"summary"`
	Scores      map[string]float64 `json:"scores"`
}
