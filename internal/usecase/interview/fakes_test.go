package interview

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/futig/interview-backend/internal/entity"
)

// scriptedModel returns queued replies in call order.
type scriptedModel struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []entity.CompletionRequest
}

func (m *scriptedModel) Complete(_ context.Context, req entity.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// echoPrompts renders the user prompt as the raw Items variable.
type echoPrompts struct {
	built []map[string]string
}

func (p *echoPrompts) Build(name string, vars map[string]string) (string, string, error) {
	p.built = append(p.built, vars)
	return "system:" + name, vars["Items"], nil
}

type recordingCallback struct {
	events []*entity.CallbackAnalysisData
}

func (c *recordingCallback) SendAnalysisCompleted(_ context.Context, data *entity.CallbackAnalysisData) {
	c.events = append(c.events, data)
}

// memRepo is an in-memory RecordRepository.
type memRepo struct {
	mu          sync.Mutex
	records     []*entity.InterviewRecord
	failUpdates bool
	patchCalls  int
}

func (r *memRepo) CreateRecords(_ context.Context, records []*entity.InterviewRecord) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(records))
	for i, rec := range records {
		copied := *rec
		r.records = append(r.records, &copied)
		ids[i] = rec.ID
	}
	return ids, nil
}

func (r *memRepo) FindRecords(_ context.Context, filter entity.RecordFilter) ([]*entity.InterviewRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if filter.SubjectID == "" {
		return nil, entity.ErrMissingField
	}

	var out []*entity.InterviewRecord
	for _, rec := range r.records {
		if rec.SubjectID != filter.SubjectID {
			continue
		}
		if filter.SessionID != nil && (rec.SessionID == nil || *rec.SessionID != *filter.SessionID) {
			continue
		}
		if filter.Question != nil && rec.Question != *filter.Question {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch filter.OrderBy {
		case entity.OrderByCreatedAtDesc:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case entity.OrderByCreatedAt:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			oi, oj := orderOf(out[i]), orderOf(out[j])
			if oi != oj {
				return oi < oj
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
	})
	return out, nil
}

func orderOf(rec *entity.InterviewRecord) int {
	if rec.Order == nil {
		return -1
	}
	return *rec.Order
}

func (r *memRepo) UpdateAnswer(_ context.Context, recordID string, update entity.AnswerUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.byID(recordID)
	if rec == nil {
		return entity.ErrRecordNotFound
	}
	rec.UserAnswer = update.UserAnswer
	rec.MediaRef = update.MediaRef
	if update.Category != nil && *update.Category != "" {
		rec.Category = *update.Category
	}
	return nil
}

func (r *memRepo) UpdateRecords(_ context.Context, patches []entity.RecordPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patchCalls++
	if r.failUpdates {
		return errors.New("connection reset")
	}
	for _, p := range patches {
		if r.byID(p.RecordID) == nil {
			return entity.ErrRecordNotFound
		}
	}
	for _, p := range patches {
		rec := r.byID(p.RecordID)
		rec.Analysis = p.Analysis
		score := p.Score
		rec.Score = &score
	}
	return nil
}

func (r *memRepo) ListSessions(_ context.Context, subjectID string) ([]entity.SessionInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.SessionInfo
	index := make(map[string]int)
	for _, rec := range r.records {
		if rec.SubjectID != subjectID {
			continue
		}
		if rec.SessionID == nil {
			out = append(out, entity.SessionInfo{RecordCount: 1, CreatedAt: rec.CreatedAt, Category: rec.Category})
			continue
		}
		if i, ok := index[*rec.SessionID]; ok {
			out[i].RecordCount++
			continue
		}
		index[*rec.SessionID] = len(out)
		out = append(out, entity.SessionInfo{
			SessionID:   rec.SessionID,
			RecordCount: 1,
			CreatedAt:   rec.CreatedAt,
			Category:    rec.Category,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memRepo) byID(id string) *entity.InterviewRecord {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func testConfig() Config {
	return Config{
		QuestionCount:         3,
		Role:                  "nurse",
		Topic:                 "adult nursing",
		DefaultCategory:       "general",
		GenerationModel:       "gen-model",
		GenerationTemperature: 0.7,
		GenerationTopP:        0.7,
		AnalysisModel:         "analysis-model",
		AnalysisTemperature:   0.4,
		AnalysisTopP:          0.95,
	}
}
