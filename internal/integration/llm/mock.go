package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned completions for local runs without a model.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

var mockQuestions = []struct {
	question, answer, category string
}{
	{
		question: "How do you assess a patient who reports sudden chest pain?",
		answer:   "I check airway, breathing and circulation, take vital signs, record a 12-lead ECG, ask about onset and character of the pain and escalate to the physician immediately.",
		category: "technical",
	},
	{
		question: "Describe a time you disagreed with a colleague about patient care.",
		answer:   "I raised my concern privately, referred to the care plan and the evidence, and we agreed to consult the charge nurse. The patient's safety stayed the priority.",
		category: "behavioral",
	},
	{
		question: "What steps do you take to prevent pressure injuries in bedridden patients?",
		answer:   "Risk assessment with the Braden scale, repositioning every two hours, skin inspection, moisture control, nutrition support and pressure-relieving surfaces.",
		category: "technical",
	},
	{
		question: "How do you prioritise care when several patients need you at once?",
		answer:   "I triage by clinical urgency using ABC, delegate appropriate tasks, communicate delays and reassess as the situation changes.",
		category: "behavioral",
	},
	{
		question: "Explain how you would educate a newly diagnosed diabetic patient.",
		answer:   "I assess health literacy, teach glucose monitoring, insulin technique, hypoglycaemia signs and diet in short sessions, and use teach-back to confirm understanding.",
		category: "technical",
	},
}

// Complete returns labeled question text for generation calls and a strict
// JSON analysis for analysis calls.
func (m *MockConnector) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completion requested", zap.String("purpose", string(req.Purpose)))

	switch req.Purpose {
	case entity.PurposeSessionAnalysis:
		return mockAnalysis(strings.Count(req.UserPrompt, `"index":`))
	default:
		return mockQuestionText(), nil
	}
}

func mockQuestionText() string {
	var b strings.Builder
	b.WriteString("<think>Pick a balanced mix of questions.</think>\n")
	for i, q := range mockQuestions {
		fmt.Fprintf(&b, "Interview question %d: %s\n", i+1, q.question)
		fmt.Fprintf(&b, "Model answer %d: %s\n", i+1, q.answer)
		fmt.Fprintf(&b, "Category %d: %s\n\n", i+1, q.category)
	}
	return b.String()
}

type mockItem struct {
	Index    int     `json:"index"`
	Analysis string  `json:"analysis"`
	Score    float64 `json:"score"`
}

type mockDocument struct {
	Items         []mockItem         `json:"items"`
	Summary       string             `json:"summary"`
	OverallScores map[string]float64 `json:"overall_scores"`
}

func mockAnalysis(count int) (string, error) {
	doc := mockDocument{
		Items:         make([]mockItem, 0, count),
		Summary:       "The candidate answers with a clear structure. Clinical detail and concrete examples could be stronger.",
		OverallScores: make(map[string]float64, len(entity.Dimensions)),
	}
	for i := range count {
		doc.Items = append(doc.Items, mockItem{
			Index:    i + 1,
			Analysis: fmt.Sprintf("Answer %d covers the key points but lacks a concrete example.", i+1),
			Score:    float64(min(60+i*10, 100)),
		})
	}
	for i, d := range entity.Dimensions {
		doc.OverallScores[string(d)] = float64(65 + i*5)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal mock analysis: %w", err)
	}
	return string(data), nil
}
