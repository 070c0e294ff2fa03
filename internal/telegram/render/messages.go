package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/interview-backend/internal/entity"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Hi! I run practice job interviews.

I will ask you a few questions, one at a time. Reply to each with a text message. When you are done I analyze all your answers together and score them.`

	MsgHelp = `🤖 Commands:

/start - Start a new interview
/analyze - Analyze the current interview
/history - List your past interviews
/cancel - Drop the current interview
/help - Show this help`

	MsgGenerating    = "⏳ Preparing your questions..."
	MsgAnalyzing     = "⏳ Analyzing your answers. This can take a minute..."
	MsgAllAnswered   = "✅ That was the last question. Press Analyze when you are ready."
	MsgNoInterview   = "There is no interview in progress. Use /start to begin."
	MsgAlreadyDone   = "All questions are answered. Press Analyze or use /analyze."
	MsgCancelled     = "Interview dropped. Use /start to begin a new one."
	MsgNoHistory     = "You have no interviews yet. Use /start to begin."
	MsgAnalyzeFirst  = "Run /analyze first, then download the report."
	MsgEmptyAnswer   = "Please answer with a text message."
	MsgUnknownAction = "❌ Unknown action."
	MsgUnknownCmd    = "❌ Unknown command. Use /help"
)

const (
	ErrGeneric         = "❌ Something went wrong. Please try again or press /start"
	ErrTimeout         = "⏱ The request took too long. Please try again."
	ErrNetworkIssue    = "🌐 Network problem. Please try again later."
	ErrModel           = "🤖 The language model is unavailable right now. Please try again later."
	ErrStorage         = "💾 Your data could not be saved. Please try again."
	ErrQuestionLost    = "❌ This question is no longer part of your interview. Use /start to begin again."
	ErrRateLimited     = "⚠️ Too many messages. Please slow down a little."
	ErrRateLimitedHard = "🛑 You are sending messages too fast. Please wait a minute."
)

// Started announces a new interview.
func Started(count int) string {
	return fmt.Sprintf("📝 Your interview has %d questions. Let's begin!", count)
}

// Question renders the n-th (1-based) of total questions.
func Question(n, total int, text, category string) string {
	return fmt.Sprintf("❓ Question %d of %d [%s]\n\n%s", n, total, category, text)
}

// Analysis renders the session summary followed by the per-question results.
func Analysis(summary *entity.SessionSummary) string {
	var b strings.Builder

	b.WriteString("📊 Interview analysis\n\n")
	if s := strings.TrimSpace(summary.Summary); s != "" {
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	for _, d := range entity.Dimensions {
		fmt.Fprintf(&b, "• %s: %.1f\n", d, summary.DimensionScores[d])
	}

	for i, rec := range summary.Records {
		score := 0.0
		if rec.Score != nil {
			score = *rec.Score
		}
		fmt.Fprintf(&b, "\n%d. %s\n⭐ %.1f / 100\n%s\n", i+1, rec.Question, score, rec.Analysis)
	}

	return b.String()
}

// History renders the session list, newest first.
func History(sessions []entity.SessionInfo) string {
	var b strings.Builder
	b.WriteString("🗂 Your interviews:\n")
	for _, s := range sessions {
		label := "legacy answer"
		if s.SessionID != nil {
			label = "session " + shortID(*s.SessionID)
		}
		fmt.Fprintf(&b, "\n• %s, %s: %d question(s), %s",
			s.CreatedAt.Format("2006-01-02 15:04"), label, s.RecordCount, s.Category)
	}
	return b.String()
}

// Split cuts text into chunks of at most limit bytes, preferring line breaks.
func Split(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
