package interview

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
)

type ModelClient interface {
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}

type PromptBuilder interface {
	Build(name string, vars map[string]string) (system string, user string, err error)
}

type CallbackConnector interface {
	SendAnalysisCompleted(ctx context.Context, data *entity.CallbackAnalysisData)
}
