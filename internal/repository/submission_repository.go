package repository

import (
	"context"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

type SubmissionRepository struct {
	Store RecordStore
	Table string
}

func NewSubmissionRepository(store RecordStore, table string) *SubmissionRepository {
	return &SubmissionRepository{Store: store, Table: table}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *model.ExamSubmission) error {
	rec, err := r.Store.Create(ctx, r.Table, submissionFields(s))
	if err != nil {
		return util.Upstream("create exam submission", err)
	}
	s.ID = rec.ID
	return nil
}

// ListForAttempts 某学员某场考试的全部提交，按提交时间升序
func (r *SubmissionRepository) ListForAttempts(ctx context.Context, traineeSlug, examID string) ([]model.ExamSubmission, error) {
	return r.find(ctx, Criteria{
		Equals:    map[string]interface{}{"trainee_slug": traineeSlug, "exam_id": examID},
		SortField: "submitted_at",
	})
}

// List 管理端结果列表，条件为空时不过滤，按提交时间倒序
func (r *SubmissionRepository) List(ctx context.Context, traineeSlug, examID string) ([]model.ExamSubmission, error) {
	eq := map[string]interface{}{}
	if traineeSlug != "" {
		eq["trainee_slug"] = traineeSlug
	}
	if examID != "" {
		eq["exam_id"] = examID
	}
	return r.find(ctx, Criteria{Equals: eq, SortField: "submitted_at", SortDesc: true})
}

func (r *SubmissionRepository) find(ctx context.Context, c Criteria) ([]model.ExamSubmission, error) {
	records, err := r.Store.Find(ctx, r.Table, c)
	if err != nil {
		return nil, util.Upstream("find exam submissions", err)
	}
	out := make([]model.ExamSubmission, 0, len(records))
	for _, rec := range records {
		out = append(out, submissionFromRecord(rec))
	}
	return out, nil
}

func submissionFields(s *model.ExamSubmission) map[string]interface{} {
	return map[string]interface{}{
		"exam_id":      s.ExamID,
		"trainee_slug": s.TraineeSlug,
		"trainee_name": s.TraineeName,
		"answers":      encodeJSONField(s.Answers),
		"score":        s.Score,
		"total_points": s.TotalPoints,
		"percentage":   s.Percentage,
		"passed":       s.Passed,
		"submitted_at": formatTime(s.SubmittedAt),
	}
}

func submissionFromRecord(rec Record) model.ExamSubmission {
	f := rec.Fields
	s := model.ExamSubmission{
		ID:          rec.ID,
		ExamID:      asString(f["exam_id"]),
		TraineeSlug: asString(f["trainee_slug"]),
		TraineeName: asString(f["trainee_name"]),
		Answers:     map[string]int{},
		Score:       asInt(f["score"]),
		TotalPoints: asInt(f["total_points"]),
		Percentage:  asInt(f["percentage"]),
		Passed:      asBool(f["passed"]),
	}
	if err := decodeJSONField(f["answers"], &s.Answers); err != nil {
		logger.Log.Warn("unreadable answers on exam submission", zap.String("record", rec.ID), zap.Error(err))
		s.Answers = map[string]int{}
	}
	if t, ok := parseTime(f["submitted_at"]); ok {
		s.SubmittedAt = t
	} else {
		s.SubmittedAt = rec.CreatedTime
	}
	return s
}
