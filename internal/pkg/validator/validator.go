package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/google/uuid"
)

const (
	maxQuestionLength = 2000
	maxAnswerLength   = 20000
	maxMediaRefLength = 2048
	maxCategoryLength = 64
)

// Validator validates interview API requests
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSubmitAnswer validates an answer submission body
func (v *Validator) ValidateSubmitAnswer(req *entity.SubmitAnswerRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.UserAnswer) == "" {
		return fmt.Errorf("%w: useranswer", entity.ErrMissingField)
	}
	if req.SessionID != nil {
		if err := v.ValidateSessionID(*req.SessionID); err != nil {
			return err
		}
	}

	if err := maxLength("question", req.Question, maxQuestionLength); err != nil {
		return err
	}
	if err := maxLength("useranswer", req.UserAnswer, maxAnswerLength); err != nil {
		return err
	}
	if req.Video != nil {
		if err := maxLength("video", *req.Video, maxMediaRefLength); err != nil {
			return err
		}
	}
	if req.Type != nil {
		if err := maxLength("type", *req.Type, maxCategoryLength); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSessionID checks that id is a UUID
func (v *Validator) ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: session_id", entity.ErrMissingField)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: session_id %q is not a UUID", entity.ErrInvalidParameter, id)
	}
	return nil
}

// ParseFormat returns the report format, markdown when empty
func (v *Validator) ParseFormat(raw string) (entity.ResultFormat, error) {
	if raw == "" {
		return entity.FormatMarkdown, nil
	}
	format := entity.ResultFormat(strings.ToLower(raw))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: format must be one of: markdown, docx, pdf", entity.ErrInvalidFormat)
	}
	return format, nil
}

func maxLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s is longer than %d characters", entity.ErrInvalidParameter, field, limit)
	}
	return nil
}
