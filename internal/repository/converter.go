package repository

import (
	"fmt"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// dbRecord mirrors one interview_records row.
type dbRecord struct {
	ID              pgtype.UUID
	SubjectID       string
	SessionID       pgtype.UUID
	QuestionOrder   pgtype.Int4
	Question        string
	ReferenceAnswer string
	UserAnswer      string
	MediaRef        pgtype.Text
	Category        string
	Analysis        string
	Score           pgtype.Float8
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

func (r *dbRecord) scanTargets() []any {
	return []any{
		&r.ID,
		&r.SubjectID,
		&r.SessionID,
		&r.QuestionOrder,
		&r.Question,
		&r.ReferenceAnswer,
		&r.UserAnswer,
		&r.MediaRef,
		&r.Category,
		&r.Analysis,
		&r.Score,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

func toEntityRecord(dbRec *dbRecord) *entity.InterviewRecord {
	rec := &entity.InterviewRecord{
		ID:              uuid.UUID(dbRec.ID.Bytes).String(),
		SubjectID:       dbRec.SubjectID,
		SessionID:       uuidPtr(dbRec.SessionID),
		Question:        dbRec.Question,
		ReferenceAnswer: dbRec.ReferenceAnswer,
		UserAnswer:      dbRec.UserAnswer,
		Category:        dbRec.Category,
		Analysis:        dbRec.Analysis,
		CreatedAt:       dbRec.CreatedAt.Time,
		UpdatedAt:       dbRec.UpdatedAt.Time,
	}

	if dbRec.QuestionOrder.Valid {
		order := int(dbRec.QuestionOrder.Int32)
		rec.Order = &order
	}

	if dbRec.MediaRef.Valid {
		mediaRef := dbRec.MediaRef.String
		rec.MediaRef = &mediaRef
	}

	if dbRec.Score.Valid {
		score := dbRec.Score.Float64
		rec.Score = &score
	}

	return rec
}

// toCopyRow orders the values of one record as recordInsertColumns.
func toCopyRow(rec *entity.InterviewRecord) ([]any, error) {
	id, err := parseUUID(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID: %w", err)
	}

	sessionID := pgtype.UUID{}
	if rec.SessionID != nil {
		if sessionID, err = parseUUID(*rec.SessionID); err != nil {
			return nil, fmt.Errorf("invalid session ID: %w", err)
		}
	}

	order := pgtype.Int4{}
	if rec.Order != nil {
		order = pgtype.Int4{Int32: int32(*rec.Order), Valid: true}
	}

	return []any{
		id,
		rec.SubjectID,
		sessionID,
		order,
		rec.Question,
		rec.ReferenceAnswer,
		rec.UserAnswer,
		textPtr(rec.MediaRef),
		rec.Category,
		rec.Analysis,
		floatPtr(rec.Score),
	}, nil
}

func toEntitySessionInfo(sessionID pgtype.UUID, count int64, createdAt pgtype.Timestamptz, category string) entity.SessionInfo {
	return entity.SessionInfo{
		SessionID:   uuidPtr(sessionID),
		RecordCount: int(count),
		CreatedAt:   createdAt.Time,
		Category:    category,
	}
}

func parseUUID(s string) (pgtype.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: %q is not a UUID", entity.ErrInvalidParameter, s)
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func uuidPtr(id pgtype.UUID) *string {
	if !id.Valid {
		return nil
	}
	s := uuid.UUID(id.Bytes).String()
	return &s
}

func textPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func floatPtr(f *float64) pgtype.Float8 {
	if f == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *f, Valid: true}
}
