package formatter

import (
	"bytes"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(summary *entity.SessionSummary) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	heading(doc, "Heading1", reportTitle)

	heading(doc, "Heading2", "Summary")
	text(doc, summaryText(summary))

	heading(doc, "Heading2", "Scores")
	for _, line := range dimensionLines(summary.DimensionScores) {
		text(doc, line)
	}

	for _, item := range reportItems(summary) {
		heading(doc, "Heading2", item.heading)
		labeled(doc, "Question: ", item.question)
		labeled(doc, "Your answer: ", item.answer)
		labeled(doc, "Model answer: ", item.reference)
		labeled(doc, "Analysis: ", item.analysis)
		labeled(doc, "Score: ", item.score)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(doc *document.Document, style, value string) {
	par := doc.AddParagraph()
	par.SetStyle(style)
	par.AddRun().AddText(value)
}

func text(doc *document.Document, value string) {
	doc.AddParagraph().AddRun().AddText(value)
}

func labeled(doc *document.Document, label, value string) {
	par := doc.AddParagraph()
	run := par.AddRun()
	run.Properties().SetBold(true)
	run.AddText(label)
	par.AddRun().AddText(value)
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
