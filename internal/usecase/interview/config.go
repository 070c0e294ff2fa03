package interview

import "github.com/futig/interview-backend/internal/config"

// Config parameterizes question generation and session analysis.
type Config struct {
	QuestionCount   int
	Role            string
	Topic           string
	DefaultCategory string

	GenerationModel       string
	GenerationTemperature float64
	GenerationTopP        float64

	AnalysisModel       string
	AnalysisTemperature float64
	AnalysisTopP        float64
}

// NewConfig collects the pipeline settings from the application config.
func NewConfig(interview config.InterviewConfig, llm config.LLMConnectorConfig) Config {
	return Config{
		QuestionCount:         interview.QuestionCount,
		Role:                  interview.Role,
		Topic:                 interview.Topic,
		DefaultCategory:       interview.DefaultCategory,
		GenerationModel:       llm.GenerationModel,
		GenerationTemperature: llm.GenerationSampling.Temperature,
		GenerationTopP:        llm.GenerationSampling.TopP,
		AnalysisModel:         llm.AnalysisModel,
		AnalysisTemperature:   llm.AnalysisSampling.Temperature,
		AnalysisTopP:          llm.AnalysisSampling.TopP,
	}
}
