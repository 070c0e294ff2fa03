package keyboard

import (
	"github.com/futig/interview-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// StartKeyboard offers a new interview
func (b *Builder) StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Start interview", EncodeCallback(ActionStart, "start")),
		),
	)
}

// AnalyzeKeyboard is shown once the last question is answered
func (b *Builder) AnalyzeKeyboard(sessionID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Analyze", EncodeCallback(ActionAnalyze, sessionID)),
		),
	)
}

// ReportKeyboard offers the analysis as a downloadable document
func (b *Builder) ReportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 PDF", EncodeCallback(ActionReport, string(entity.FormatPDF))),
			tgbotapi.NewInlineKeyboardButtonData("📝 DOCX", EncodeCallback(ActionReport, string(entity.FormatDOCX))),
			tgbotapi.NewInlineKeyboardButtonData("Ⓜ️ Markdown", EncodeCallback(ActionReport, string(entity.FormatMarkdown))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 New interview", EncodeCallback(ActionStart, "start")),
		),
	)
}
