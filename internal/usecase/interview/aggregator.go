package interview

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/repository"
)

// SessionAggregator serves the read-only session history views.
type SessionAggregator struct {
	recordRepo repository.RecordRepository
}

func NewSessionAggregator(recordRepo repository.RecordRepository) *SessionAggregator {
	return &SessionAggregator{
		recordRepo: recordRepo,
	}
}

// ListSessions returns the subject's sessions, newest first. Every legacy
// record without a session is listed as its own entry.
func (a *SessionAggregator) ListSessions(ctx context.Context, subjectID string) ([]entity.SessionInfo, error) {
	sessions, err := a.recordRepo.ListSessions(ctx, subjectID)
	if err != nil {
		return nil, storeError("list sessions", err)
	}
	if sessions == nil {
		sessions = []entity.SessionInfo{}
	}
	return sessions, nil
}

// GetSession returns the records of one session ordered by question order.
func (a *SessionAggregator) GetSession(ctx context.Context, subjectID, sessionID string) ([]*entity.InterviewRecord, error) {
	records, err := a.recordRepo.FindRecords(ctx, entity.RecordFilter{
		SubjectID: subjectID,
		SessionID: &sessionID,
		OrderBy:   entity.OrderBySessionOrder,
	})
	if err != nil {
		return nil, storeError("find session records", err)
	}
	if len(records) == 0 {
		return nil, entity.ErrSessionNotFound
	}
	return records, nil
}
