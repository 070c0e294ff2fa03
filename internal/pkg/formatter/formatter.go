package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
)

const reportTitle = "Interview analysis report"

type Formatter interface {
	Format(summary *entity.SessionSummary) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// reportItem is one answered question as laid out in every report format.
type reportItem struct {
	heading   string
	question  string
	answer    string
	reference string
	analysis  string
	score     string
}

func reportItems(summary *entity.SessionSummary) []reportItem {
	items := make([]reportItem, len(summary.Records))
	for i, rec := range summary.Records {
		items[i] = reportItem{
			heading:   fmt.Sprintf("Question %d (%s)", i+1, rec.Category),
			question:  rec.Question,
			answer:    rec.UserAnswer,
			reference: rec.ReferenceAnswer,
			analysis:  rec.Analysis,
			score:     formatScore(rec.Score),
		}
	}
	return items
}

// dimensionLines renders the dimension scores in presentation order.
func dimensionLines(scores entity.DimensionScores) []string {
	lines := make([]string, 0, len(entity.Dimensions))
	for _, d := range entity.Dimensions {
		name := string(d)
		lines = append(lines, fmt.Sprintf("%s%s: %.1f", strings.ToUpper(name[:1]), name[1:], scores[d]))
	}
	return lines
}

func formatScore(score *float64) string {
	if score == nil {
		return "not scored"
	}
	return fmt.Sprintf("%.1f / 100", *score)
}

func summaryText(summary *entity.SessionSummary) string {
	if strings.TrimSpace(summary.Summary) == "" {
		return "No summary was produced."
	}
	return summary.Summary
}
