package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordRepository defines the interface for interview record persistence
type RecordRepository interface {
	CreateRecords(ctx context.Context, records []*entity.InterviewRecord) ([]string, error)
	FindRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.InterviewRecord, error)
	UpdateAnswer(ctx context.Context, recordID string, update entity.AnswerUpdate) error
	UpdateRecords(ctx context.Context, patches []entity.RecordPatch) error
	ListSessions(ctx context.Context, subjectID string) ([]entity.SessionInfo, error)
}

var _ RecordRepository = &RecordPostgres{}

const recordsTable = "interview_records"

const recordColumns = `id, subject_id, session_id, question_order, question, reference_answer,
	user_answer, media_ref, category, analysis, score, created_at, updated_at`

var recordInsertColumns = []string{
	"id",
	"subject_id",
	"session_id",
	"question_order",
	"question",
	"reference_answer",
	"user_answer",
	"media_ref",
	"category",
	"analysis",
	"score",
}

const updateAnswerQuery = `
UPDATE interview_records
SET user_answer = $2,
    media_ref   = $3,
    category    = COALESCE(NULLIF($4, ''), category),
    updated_at  = NOW()
WHERE id = $1`

const updateAnalysisQuery = `
UPDATE interview_records
SET analysis   = $2,
    score      = $3,
    updated_at = NOW()
WHERE id = $1`

// Grouped sessions plus one row per legacy record, newest first.
const listSessionsQuery = `
SELECT session_id,
       COUNT(*)                                                   AS record_count,
       MIN(created_at)                                            AS created_at,
       (ARRAY_AGG(category ORDER BY question_order, created_at))[1] AS category
FROM interview_records
WHERE subject_id = $1 AND session_id IS NOT NULL
GROUP BY session_id
UNION ALL
SELECT NULL::uuid, 1, created_at, category
FROM interview_records
WHERE subject_id = $1 AND session_id IS NULL
ORDER BY created_at DESC`

// RecordPostgres implements RecordRepository using PostgreSQL
type RecordPostgres struct {
	db *pgxpool.Pool
}

func NewRecordPostgres(db *pgxpool.Pool) *RecordPostgres {
	return &RecordPostgres{
		db: db,
	}
}

// CreateRecords inserts all records in one transaction. Records without an ID get a new UUID.
func (r *RecordPostgres) CreateRecords(ctx context.Context, records []*entity.InterviewRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]string, len(records))
	rows := make([][]any, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		row, err := toCopyRow(rec)
		if err != nil {
			return nil, fmt.Errorf("prepare record %d: %w", i, err)
		}
		ids[i] = rec.ID
		rows[i] = row
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	n, err := tx.CopyFrom(ctx, pgx.Identifier{recordsTable}, recordInsertColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, fmt.Errorf("copy records: %w", err)
	}
	if int(n) != len(records) {
		return nil, fmt.Errorf("copy records: inserted %d of %d rows", n, len(records))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return ids, nil
}

// FindRecords returns the subject's records matching filter.
func (r *RecordPostgres) FindRecords(ctx context.Context, filter entity.RecordFilter) ([]*entity.InterviewRecord, error) {
	query, args, err := buildFindRecordsQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*entity.InterviewRecord
	for rows.Next() {
		var dbRec dbRecord
		if err := rows.Scan(dbRec.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, toEntityRecord(&dbRec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// UpdateAnswer stores a submitted answer. An empty category keeps the stored one.
func (r *RecordPostgres) UpdateAnswer(ctx context.Context, recordID string, update entity.AnswerUpdate) error {
	id, err := parseUUID(recordID)
	if err != nil {
		return fmt.Errorf("invalid record ID: %w", err)
	}

	category := ""
	if update.Category != nil {
		category = *update.Category
	}

	tag, err := r.db.Exec(ctx, updateAnswerQuery, id, update.UserAnswer, textPtr(update.MediaRef), category)
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update answer %s: %w", recordID, entity.ErrRecordNotFound)
	}

	return nil
}

// UpdateRecords applies all patches in one transaction. A missing record aborts the whole batch.
func (r *RecordPostgres) UpdateRecords(ctx context.Context, patches []entity.RecordPatch) error {
	if len(patches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range patches {
		id, err := parseUUID(p.RecordID)
		if err != nil {
			return fmt.Errorf("invalid record ID: %w", err)
		}
		batch.Queue(updateAnalysisQuery, id, p.Analysis, p.Score)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := execPatchBatch(ctx, tx, batch, patches); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func execPatchBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, patches []entity.RecordPatch) error {
	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, p := range patches {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("update record %s: %w", p.RecordID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update record %s: %w", p.RecordID, entity.ErrRecordNotFound)
		}
	}

	return nil
}

// ListSessions returns one entry per session id and one per legacy record, newest first.
func (r *RecordPostgres) ListSessions(ctx context.Context, subjectID string) ([]entity.SessionInfo, error) {
	rows, err := r.db.Query(ctx, listSessionsQuery, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []entity.SessionInfo
	for rows.Next() {
		var (
			sessionID pgtype.UUID
			count     int64
			createdAt pgtype.Timestamptz
			category  pgtype.Text
		)
		if err := rows.Scan(&sessionID, &count, &createdAt, &category); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, toEntitySessionInfo(sessionID, count, createdAt, category.String))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func buildFindRecordsQuery(filter entity.RecordFilter) (string, []any, error) {
	if filter.SubjectID == "" {
		return "", nil, fmt.Errorf("find records: subject id: %w", entity.ErrMissingField)
	}

	conds := []string{"subject_id = $1"}
	args := []any{filter.SubjectID}

	if filter.SessionID != nil {
		sessionID, err := parseUUID(*filter.SessionID)
		if err != nil {
			return "", nil, fmt.Errorf("invalid session ID: %w", err)
		}
		args = append(args, sessionID)
		conds = append(conds, fmt.Sprintf("session_id = $%d", len(args)))
	}

	if filter.Question != nil {
		args = append(args, *filter.Question)
		conds = append(conds, fmt.Sprintf("question = $%d", len(args)))
	}

	var orderBy string
	switch filter.OrderBy {
	case entity.OrderBySessionOrder:
		orderBy = "question_order ASC NULLS LAST, created_at ASC, id ASC"
	case entity.OrderByCreatedAt:
		orderBy = "created_at ASC, question_order ASC NULLS LAST, id ASC"
	case entity.OrderByCreatedAtDesc:
		orderBy = "created_at DESC, question_order DESC NULLS LAST, id DESC"
	default:
		return "", nil, fmt.Errorf("find records: order %d: %w", filter.OrderBy, entity.ErrInvalidParameter)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		recordColumns, recordsTable, strings.Join(conds, " AND "), orderBy)

	return query, args, nil
}

