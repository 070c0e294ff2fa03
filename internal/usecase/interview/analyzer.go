package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/extractor"
	"github.com/futig/interview-backend/internal/prompts"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	fieldAnalysis = "analysis"
	fieldScore    = "score"
	fieldSummary  = "summary"
)

// analysisSchema is embedded into the analysis prompt.
const analysisSchema = `{
  "type": "object",
  "required": ["items", "summary", "overall_scores"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["index", "analysis", "score"],
        "properties": {
          "index": {"type": "integer"},
          "analysis": {"type": "string"},
          "score": {"type": "number", "minimum": 0, "maximum": 100}
        }
      }
    },
    "summary": {"type": "string"},
    "overall_scores": {
      "type": "object",
      "required": ["specificity", "logic", "relevance", "expression", "expertise"],
      "additionalProperties": {"type": "number", "minimum": 0, "maximum": 100}
    }
  }
}`

// dimensionAliases maps accepted overall_scores keys to dimensions.
var dimensionAliases = map[string]entity.Dimension{
	"specificity": entity.DimensionSpecificity,
	"구체성":         entity.DimensionSpecificity,
	"logic":       entity.DimensionLogic,
	"논리성":         entity.DimensionLogic,
	"relevance":   entity.DimensionRelevance,
	"적합성":         entity.DimensionRelevance,
	"expression":  entity.DimensionExpression,
	"표현력":         entity.DimensionExpression,
	"expertise":   entity.DimensionExpertise,
	"전문성":         entity.DimensionExpertise,
}

type analysisItem struct {
	Index    extractor.Number `json:"index"`
	Analysis extractor.Text   `json:"analysis"`
	Score    extractor.Number `json:"score"`
}

type analysisDocument struct {
	Items         []analysisItem              `json:"items"`
	Summary       extractor.Text              `json:"summary"`
	OverallScores map[string]extractor.Number `json:"overall_scores"`
}

var analysisShape = extractor.Shape[analysisDocument]{
	Required: []string{"items"},
	Fields: []extractor.Field{
		{Name: fieldAnalysis, Aliases: []string{`분석`}},
		{Name: fieldScore, Aliases: []string{`점수`}, Kind: extractor.KindNumber},
		{Name: fieldSummary, Aliases: []string{`overall\s+summary`, `총평`}, Trailing: true},
	},
}

// promptItem is one record as shown to the model.
type promptItem struct {
	Index           int    `json:"index"`
	Question        string `json:"question"`
	UserAnswer      string `json:"user_answer"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Analysis is the outcome of one analyzer run: the derived session view and
// the patches to persist, one per input record in input order.
type Analysis struct {
	Summary entity.SessionSummary
	Patches []entity.RecordPatch
}

type itemResult struct {
	analysis string
	score    float64
}

type parsedAnalysis struct {
	items      []itemResult
	summary    string
	dimensions entity.DimensionScores // nil when scores must be derived from item scores
}

// SessionAnalyzer evaluates all records of one session in a single model call.
type SessionAnalyzer struct {
	model   ModelClient
	prompts PromptBuilder
	cfg     Config
}

func NewSessionAnalyzer(model ModelClient, prompts PromptBuilder, cfg Config) *SessionAnalyzer {
	return &SessionAnalyzer{
		model:   model,
		prompts: prompts,
		cfg:     cfg,
	}
}

// Analyze evaluates records, which must already be in presentation order.
// Records are not modified; the returned summary holds patched copies.
// Result i is applied to record i; records without a result get the default
// analysis and a zero score.
func (a *SessionAnalyzer) Analyze(ctx context.Context, records []*entity.InterviewRecord) (*Analysis, error) {
	if len(records) == 0 {
		return &Analysis{
			Summary: entity.SessionSummary{
				Summary:         entity.NoDataSummary,
				DimensionScores: entity.ZeroDimensionScores(),
				Records:         []*entity.InterviewRecord{},
			},
		}, nil
	}

	system, user, err := a.buildPrompt(records)
	if err != nil {
		return nil, err
	}

	raw, err := a.model.Complete(ctx, entity.CompletionRequest{
		Purpose:      entity.PurposeSessionAnalysis,
		SystemPrompt: system,
		UserPrompt:   user,
		Model:        a.cfg.AnalysisModel,
		Temperature:  a.cfg.AnalysisTemperature,
		TopP:         a.cfg.AnalysisTopP,
	})
	if err != nil {
		return nil, modelError("analyze session", err)
	}

	res := extractor.Extract(raw, analysisShape)
	parsed := normalizeAnalysis(res)

	ctxzap.Info(ctx, "session analysis parsed",
		zap.Stringer("path", res.Path()),
		zap.Int("records", len(records)),
		zap.Int("results", len(parsed.items)),
	)
	if len(parsed.items) < len(records) {
		ctxzap.Warn(ctx, "model returned fewer results than records, using defaults",
			zap.Int("missing", len(records)-len(parsed.items)),
		)
	}

	return applyAnalysis(records, parsed), nil
}

func (a *SessionAnalyzer) buildPrompt(records []*entity.InterviewRecord) (string, string, error) {
	items := make([]promptItem, len(records))
	for i, rec := range records {
		items[i] = promptItem{
			Index:           i + 1,
			Question:        rec.Question,
			UserAnswer:      rec.UserAnswer,
			ReferenceAnswer: rec.ReferenceAnswer,
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal analysis items: %w", err)
	}

	dims := make([]string, len(entity.Dimensions))
	for i, d := range entity.Dimensions {
		dims[i] = string(d)
	}

	return a.prompts.Build(prompts.SessionAnalysis, map[string]string{
		"Role":       a.cfg.Role,
		"Topic":      a.cfg.Topic,
		"Dimensions": strings.Join(dims, ", "),
		"Items":      string(data),
		"Schema":     analysisSchema,
	})
}

func normalizeAnalysis(res extractor.Result) parsedAnalysis {
	var out parsedAnalysis

	switch r := res.(type) {
	case extractor.StrictParse[analysisDocument]:
		for _, item := range r.Doc.Items {
			out.items = append(out.items, itemResult{
				analysis: strings.TrimSpace(item.Analysis.String()),
				score:    extractor.Score(item.Score.Float64()),
			})
		}
		out.summary = strings.TrimSpace(r.Doc.Summary.String())
		out.dimensions = dimensionScores(r.Doc.OverallScores)
	case extractor.FallbackParse:
		analyses := r.Texts[fieldAnalysis]
		scores := r.Numbers[fieldScore]
		for i := range r.Pairs(fieldAnalysis, fieldScore) {
			out.items = append(out.items, itemResult{
				analysis: analyses[i],
				score:    extractor.Score(scores[i]),
			})
		}
		out.summary = r.Trailing[fieldSummary]
	}

	return out
}

func dimensionScores(raw map[string]extractor.Number) entity.DimensionScores {
	scores := entity.ZeroDimensionScores()
	for k, v := range raw {
		if d, ok := dimensionAliases[strings.ToLower(strings.TrimSpace(k))]; ok {
			scores[d] = extractor.Score(v.Float64())
		}
	}
	return scores
}

func applyAnalysis(records []*entity.InterviewRecord, parsed parsedAnalysis) *Analysis {
	patches := make([]entity.RecordPatch, len(records))
	analyzed := make([]*entity.InterviewRecord, len(records))

	var total float64
	for i, rec := range records {
		patch := entity.RecordPatch{
			RecordID: rec.ID,
			Analysis: entity.DefaultAnalysis,
			Score:    0,
		}
		if i < len(parsed.items) {
			if text := parsed.items[i].analysis; text != "" {
				patch.Analysis = text
			}
			patch.Score = parsed.items[i].score
		}
		patches[i] = patch
		total += patch.Score

		copied := *rec
		copied.Analysis = patch.Analysis
		score := patch.Score
		copied.Score = &score
		analyzed[i] = &copied
	}

	dims := parsed.dimensions
	if dims == nil {
		dims = entity.UniformDimensionScores(roundTenth(total / float64(len(records))))
	}

	return &Analysis{
		Summary: entity.SessionSummary{
			Summary:         parsed.summary,
			DimensionScores: dims,
			Records:         analyzed,
		},
		Patches: patches,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
