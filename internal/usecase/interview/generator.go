package interview

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/extractor"
	"github.com/futig/interview-backend/internal/prompts"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	fieldQuestion = "question"
	fieldAnswer   = "answer"
	fieldCategory = "category"
)

type questionDocument struct {
	Questions []entity.QuestionTriple `json:"questions"`
}

var questionShape = extractor.Shape[questionDocument]{
	Required: []string{"questions"},
	Validate: func(d *questionDocument) error {
		for _, q := range d.Questions {
			if strings.TrimSpace(q.Question) != "" {
				return nil
			}
		}
		return errors.New("no non-empty question")
	},
	Fields: []extractor.Field{
		{
			Name: fieldQuestion,
			Aliases: []string{
				`interview\s+question\s*\d*`,
				`question\s*\d*`,
				`q\d+`,
				`면접\s*질문\s*\d*`,
				`질문\s*\d*`,
			},
		},
		{
			Name: fieldAnswer,
			Aliases: []string{
				`model\s+answer\s*\d*`,
				`reference\s+answer\s*\d*`,
				`sample\s+answer\s*\d*`,
				`answer\s*\d*`,
				`생성한\s*답\s*\d*`,
				`모범\s*답변\s*\d*`,
				`답변\s*\d*`,
			},
		},
		{
			Name: fieldCategory,
			Aliases: []string{
				`category\s*\d*`,
				`type\s*\d*`,
				`유형\s*\d*`,
			},
		},
	},
}

// QuestionGenerator turns one model completion into exactly Count question triples.
type QuestionGenerator struct {
	model   ModelClient
	prompts PromptBuilder
	cfg     Config
}

func NewQuestionGenerator(model ModelClient, prompts PromptBuilder, cfg Config) *QuestionGenerator {
	return &QuestionGenerator{
		model:   model,
		prompts: prompts,
		cfg:     cfg,
	}
}

// Generate asks the model for a question set. Unparseable output never fails:
// missing entries are padded with placeholders, extra ones are dropped.
func (g *QuestionGenerator) Generate(ctx context.Context) ([]entity.QuestionTriple, error) {
	system, user, err := g.prompts.Build(prompts.QuestionGeneration, map[string]string{
		"Role":  g.cfg.Role,
		"Topic": g.cfg.Topic,
		"Count": strconv.Itoa(g.cfg.QuestionCount),
	})
	if err != nil {
		return nil, err
	}

	raw, err := g.model.Complete(ctx, entity.CompletionRequest{
		Purpose:      entity.PurposeQuestionGeneration,
		SystemPrompt: system,
		UserPrompt:   user,
		Model:        g.cfg.GenerationModel,
		Temperature:  g.cfg.GenerationTemperature,
		TopP:         g.cfg.GenerationTopP,
	})
	if err != nil {
		return nil, modelError("generate questions", err)
	}

	res := extractor.Extract(raw, questionShape)
	parsed := g.normalize(res)

	ctxzap.Info(ctx, "question set parsed",
		zap.Stringer("path", res.Path()),
		zap.Int("parsed", len(parsed)),
		zap.Int("wanted", g.cfg.QuestionCount),
	)

	return fitQuestions(parsed, g.cfg.QuestionCount, g.cfg.DefaultCategory), nil
}

func (g *QuestionGenerator) normalize(res extractor.Result) []entity.QuestionTriple {
	var out []entity.QuestionTriple

	switch r := res.(type) {
	case extractor.StrictParse[questionDocument]:
		for _, q := range r.Doc.Questions {
			if strings.TrimSpace(q.Question) == "" {
				continue
			}
			out = append(out, entity.QuestionTriple{
				Question:        strings.TrimSpace(q.Question),
				ReferenceAnswer: strings.TrimSpace(q.ReferenceAnswer),
				Category:        g.category(q.Category),
			})
		}
	case extractor.FallbackParse:
		questions := r.Texts[fieldQuestion]
		answers := r.Texts[fieldAnswer]
		for i := range r.Pairs(fieldQuestion, fieldAnswer) {
			out = append(out, entity.QuestionTriple{
				Question:        questions[i],
				ReferenceAnswer: answers[i],
				Category:        g.category(fallbackCategory(r, i)),
			})
		}
	}

	return out
}

// fallbackCategory finds the category written for question i. Numbered labels
// are matched by number ("Question 2:" to "Category 2:"). Unnumbered ones are
// matched by position, but only when every question has a category.
func fallbackCategory(r extractor.FallbackParse, i int) string {
	categories := r.Texts[fieldCategory]
	catOrdinals := r.Ordinals[fieldCategory]

	numbered := slices.ContainsFunc(catOrdinals, func(n int) bool { return n > 0 })
	if q := r.Ordinals[fieldQuestion]; numbered && i < len(q) && q[i] > 0 {
		if j := slices.Index(catOrdinals, q[i]); j >= 0 {
			return categories[j]
		}
		return ""
	}

	if len(categories) == len(r.Texts[fieldQuestion]) {
		return categories[i]
	}
	return ""
}

func (g *QuestionGenerator) category(c string) string {
	if c = strings.TrimSpace(c); c != "" {
		return c
	}
	return g.cfg.DefaultCategory
}

// fitQuestions truncates or pads triples to exactly n entries.
func fitQuestions(triples []entity.QuestionTriple, n int, defaultCategory string) []entity.QuestionTriple {
	if len(triples) > n {
		return triples[:n]
	}

	out := make([]entity.QuestionTriple, 0, n)
	out = append(out, triples...)
	for k := len(out) + 1; k <= n; k++ {
		out = append(out, entity.QuestionTriple{
			Question:        entity.FailedQuestionText(k),
			ReferenceAnswer: entity.FailedAnswerText,
			Category:        defaultCategory,
		})
	}
	return out
}
