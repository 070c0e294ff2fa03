package validator

import (
	"strings"
	"testing"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestValidateSubmitAnswer(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     entity.SubmitAnswerRequest
		wantErr error
	}{
		{
			name: "valid with session",
			req: entity.SubmitAnswerRequest{
				SessionID:  ptr("8f14e45f-ceea-4e6a-9d1b-2b9c6c1f3a10"),
				Question:   "Q1",
				UserAnswer: "answer",
			},
		},
		{
			name: "valid legacy",
			req:  entity.SubmitAnswerRequest{Question: "Q1", UserAnswer: "answer", Video: ptr("v.webm")},
		},
		{
			name:    "blank question",
			req:     entity.SubmitAnswerRequest{Question: "  ", UserAnswer: "answer"},
			wantErr: entity.ErrMissingField,
		},
		{
			name:    "blank answer",
			req:     entity.SubmitAnswerRequest{Question: "Q1", UserAnswer: "\n"},
			wantErr: entity.ErrMissingField,
		},
		{
			name:    "bad session id",
			req:     entity.SubmitAnswerRequest{SessionID: ptr("42"), Question: "Q1", UserAnswer: "a"},
			wantErr: entity.ErrInvalidParameter,
		},
		{
			name:    "answer too long",
			req:     entity.SubmitAnswerRequest{Question: "Q1", UserAnswer: strings.Repeat("가", maxAnswerLength+1)},
			wantErr: entity.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSubmitAnswer(&tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseFormat(t *testing.T) {
	v := NewValidator()

	f, err := v.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, entity.FormatMarkdown, f)

	f, err = v.ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, entity.FormatPDF, f)

	_, err = v.ParseFormat("json")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}
