package formatter

import (
	"bytes"
	"os"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFontName = "DejaVuSans"

	// Font locations next to the binary and in the source tree.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath returns the first existing font file, or "" to fall back
// to the core Arial font.
func resolveFontPath() string {
	for _, p := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(summary *entity.SessionSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Korean and other non-Latin answers need the bundled UTF-8 font
	fontName := "Arial"
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	section := func(title string) {
		pdf.SetFont(fontName, "B", 14)
		pdf.Ln(4)
		pdf.MultiCell(0, 8, title, "", "", false)
		pdf.SetFont(fontName, "", 11)
	}
	paragraph := func(body string) {
		_, lineHeight := pdf.GetFontSize()
		pdf.MultiCell(0, lineHeight*1.5, body, "", "", false)
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, reportTitle)
	pdf.Ln(12)

	section("Summary")
	paragraph(summaryText(summary))

	section("Scores")
	for _, line := range dimensionLines(summary.DimensionScores) {
		paragraph(line)
	}

	for _, item := range reportItems(summary) {
		section(item.heading)
		paragraph("Question: " + item.question)
		paragraph("Your answer: " + item.answer)
		paragraph("Model answer: " + item.reference)
		paragraph("Analysis: " + item.analysis)
		paragraph("Score: " + item.score)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
