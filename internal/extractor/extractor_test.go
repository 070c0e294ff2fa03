package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type questionDoc struct {
	Question string `json:"question"`
}

var questionShape = Shape[questionDoc]{
	Required: []string{"question"},
	Fields: []Field{
		{Name: "question", Aliases: []string{`interview\s+question\s*\d*`}},
	},
}

type reviewDoc struct {
	Items []struct {
		Analysis string `json:"analysis"`
		Score    Number `json:"score"`
	} `json:"items"`
	Summary string `json:"summary"`
}

var reviewFields = []Field{
	{Name: "analysis"},
	{Name: "score", Kind: KindNumber},
	{Name: "summary", Trailing: true},
}

var reviewShape = Shape[reviewDoc]{
	Required: []string{"items"},
	Fields:   reviewFields,
}

func TestExtractStrictDocument(t *testing.T) {
	res := Extract(`{"question":"Q1"}`, questionShape)

	strict, ok := res.(StrictParse[questionDoc])
	require.True(t, ok, "expected strict parse, got %T", res)
	assert.Equal(t, PathStrict, strict.Path())
	assert.Equal(t, "Q1", strict.Doc.Question)
}

func TestExtractDiscardsReasoningPreamble(t *testing.T) {
	res := Extract(`junk</think>{"question":"Q1"}`, questionShape)

	strict, ok := res.(StrictParse[questionDoc])
	require.True(t, ok, "expected strict parse, got %T", res)
	assert.Equal(t, "Q1", strict.Doc.Question)
}

func TestExtractOnlyFirstReasoningMarkerCounts(t *testing.T) {
	raw := "question: hidden</think>question: visible\n</think> tail"

	res := Extract(raw, questionShape)

	fallback, ok := res.(FallbackParse)
	require.True(t, ok, "expected fallback parse, got %T", res)
	assert.Equal(t, []string{"visible\n</think> tail"}, fallback.Texts["question"])
}

func TestExtractFencedBlock(t *testing.T) {
	raw := "Sure! Here is the result:\n```json\n{\"question\": \"From fence\"}\n```\nAnything else?"

	res := Extract(raw, questionShape)

	strict, ok := res.(StrictParse[questionDoc])
	require.True(t, ok, "expected fenced parse, got %T", res)
	assert.Equal(t, PathFenced, strict.Path())
	assert.Equal(t, "From fence", strict.Doc.Question)
}

func TestExtractMissingRequiredKeyFallsBack(t *testing.T) {
	for _, raw := range []string{
		`{"other":"x"}`,
		`{"question":null}`,
	} {
		res := Extract(raw, questionShape)
		assert.Equal(t, PathFallback, res.Path(), "input %q", raw)
	}
}

func TestExtractValidateRejectsDocument(t *testing.T) {
	shape := questionShape
	shape.Validate = func(d *questionDoc) error {
		if d.Question == "" {
			return errors.New("empty question")
		}
		return nil
	}

	res := Extract(`{"question":""}`, shape)

	assert.Equal(t, PathFallback, res.Path())
}

func TestExtractLabeledSections(t *testing.T) {
	raw := `Item 1
{analysis}: Clear structure but lacks examples.
{score}: 78
Item 2
**Analysis**: Good use of clinical terms.
Score: 91.5/100

summary: Overall solid answers.
Needs more specifics.

Thanks for reading!`

	res := Extract(raw, reviewShape)

	fallback, ok := res.(FallbackParse)
	require.True(t, ok, "expected fallback parse, got %T", res)
	assert.Equal(t, []string{
		"Clear structure but lacks examples.",
		"Good use of clinical terms.",
	}, fallback.Texts["analysis"])
	assert.Equal(t, []float64{78, 91.5}, fallback.Numbers["score"])
	assert.Equal(t, "Overall solid answers.\nNeeds more specifics.", fallback.Trailing["summary"])
	assert.Equal(t, 2, fallback.Pairs("analysis", "score"))
}

func TestExtractKeepsLastTrailingSection(t *testing.T) {
	res := Extract("summary: first\n\nsummary: second", reviewShape)

	fallback := res.(FallbackParse)
	assert.Equal(t, "second", fallback.Trailing["summary"])
}

func TestExtractNonNumericScoreKeepsAlignment(t *testing.T) {
	raw := "analysis: a1\nscore: N/A\nanalysis: a2\nscore: 64"

	fallback := Extract(raw, reviewShape).(FallbackParse)

	assert.Equal(t, []string{"a1", "a2"}, fallback.Texts["analysis"])
	assert.Equal(t, []float64{0, 64}, fallback.Numbers["score"])
}

func TestExtractIgnoresLabelsInsideWords(t *testing.T) {
	fallback := Extract("subscore: 10\nscore: 20", reviewShape).(FallbackParse)

	assert.Equal(t, []float64{20}, fallback.Numbers["score"])
}

func TestExtractAliasesAreData(t *testing.T) {
	shape := Shape[reviewDoc]{
		Fields: []Field{
			{Name: "analysis", Aliases: []string{"분석"}},
			{Name: "score", Aliases: []string{"점수"}, Kind: KindNumber},
		},
	}

	fallback := Extract("분석: 좋은 답변\n점수: 88", shape).(FallbackParse)

	assert.Equal(t, []string{"좋은 답변"}, fallback.Texts["analysis"])
	assert.Equal(t, []float64{88}, fallback.Numbers["score"])
}

func TestExtractInvalidAliasIsTreatedLiterally(t *testing.T) {
	shape := Shape[reviewDoc]{
		Fields: []Field{{Name: "analysis", Aliases: []string{"a(b"}}},
	}

	fallback := Extract("a(b: literal", shape).(FallbackParse)

	assert.Equal(t, []string{"literal"}, fallback.Texts["analysis"])
}

func TestExtractNeverFailsOnMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{",
		`{"items": [`,
		"```json\n{\"items\": [}\n```",
		"```",
		"</think>",
		"</think></think>",
		"analysis:",
		"score:",
		"summary:",
		"{score}: {analysis}: {summary}:",
		`[1, 2, 3]`,
		`"just a string"`,
		"\x00\xff\xfe garbage",
		strings.Repeat("analysis: x score: 1 ", 500),
	}

	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			res := Extract(raw, reviewShape)
			assert.NotNil(t, res, "input %q", raw)
		}, "input %q", raw)
	}
}

func TestExtractEmptyInputYieldsEmptyFallback(t *testing.T) {
	fallback, ok := Extract("", reviewShape).(FallbackParse)

	require.True(t, ok)
	assert.Empty(t, fallback.Texts)
	assert.Empty(t, fallback.Numbers)
	assert.Empty(t, fallback.Trailing)
}

func TestExtractRecordsLabelNumbers(t *testing.T) {
	raw := "Interview question 2: second\n{question}: braced\ninterview question 10: tenth"

	fallback := Extract(raw, questionShape).(FallbackParse)

	assert.Equal(t, []string{"second", "braced", "tenth"}, fallback.Texts["question"])
	assert.Equal(t, []int{2, 0, 10}, fallback.Ordinals["question"])
}
