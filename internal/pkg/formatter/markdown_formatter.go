package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/interview-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(summary *entity.SessionSummary) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", reportTitle)

	fmt.Fprintf(&buf, "## Summary\n\n%s\n\n", summaryText(summary))

	buf.WriteString("## Scores\n\n")
	for _, line := range dimensionLines(summary.DimensionScores) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}
	buf.WriteString("\n")

	for _, item := range reportItems(summary) {
		fmt.Fprintf(&buf, "## %s\n\n", item.heading)
		fmt.Fprintf(&buf, "**Question:** %s\n\n", item.question)
		fmt.Fprintf(&buf, "**Your answer:** %s\n\n", item.answer)
		fmt.Fprintf(&buf, "**Model answer:** %s\n\n", item.reference)
		fmt.Fprintf(&buf, "**Analysis:** %s\n\n", item.analysis)
		fmt.Fprintf(&buf, "**Score:** %s\n\n", item.score)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
