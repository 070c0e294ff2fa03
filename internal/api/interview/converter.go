package interview

import "github.com/futig/interview-backend/internal/entity"

func toStartInterviewResponse(started *entity.StartedSession) entity.StartInterviewResponse {
	questions := make([]entity.QuestionDTO, len(started.Records))
	for i, rec := range started.Records {
		order := i
		if rec.Order != nil {
			order = *rec.Order
		}
		questions[i] = entity.QuestionDTO{
			ID:       rec.ID,
			Order:    order,
			Question: rec.Question,
			Answer:   rec.ReferenceAnswer,
			Type:     rec.Category,
		}
	}
	return entity.StartInterviewResponse{
		SessionID:    started.SessionID,
		QuestionList: questions,
	}
}

func toInterviewItemDTO(rec *entity.InterviewRecord) entity.InterviewItemDTO {
	return entity.InterviewItemDTO{
		ID:              rec.ID,
		Order:           rec.Order,
		Question:        rec.Question,
		UserAnswer:      rec.UserAnswer,
		ReferenceAnswer: rec.ReferenceAnswer,
		Analysis:        rec.Analysis,
		Score:           rec.Score,
		Video:           rec.MediaRef,
		Type:            rec.Category,
	}
}

func toInterviewItems(records []*entity.InterviewRecord) []entity.InterviewItemDTO {
	items := make([]entity.InterviewItemDTO, len(records))
	for i, rec := range records {
		items[i] = toInterviewItemDTO(rec)
	}
	return items
}

func toAnalysisDTO(summary *entity.SessionSummary) entity.AnalysisDTO {
	scores := make(map[string]float64, len(summary.DimensionScores))
	for d, v := range summary.DimensionScores {
		scores[string(d)] = v
	}
	return entity.AnalysisDTO{
		SessionID:     summary.SessionID,
		InterviewList: toInterviewItems(summary.Records),
		Summary:       summary.Summary,
		Scores:        scores,
	}
}

func toSessionInfoDTOs(sessions []entity.SessionInfo) []entity.SessionInfoDTO {
	out := make([]entity.SessionInfoDTO, len(sessions))
	for i, s := range sessions {
		out[i] = entity.SessionInfoDTO{
			SessionID:   s.SessionID,
			RecordCount: s.RecordCount,
			CreatedAt:   s.CreatedAt,
			Category:    s.Category,
		}
	}
	return out
}

func toSubmitAnswerInput(subjectID string, req *entity.SubmitAnswerRequest) entity.SubmitAnswerInput {
	return entity.SubmitAnswerInput{
		SubjectID:  subjectID,
		SessionID:  req.SessionID,
		Question:   req.Question,
		UserAnswer: req.UserAnswer,
		MediaRef:   req.Video,
		Category:   req.Type,
	}
}
