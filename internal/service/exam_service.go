package service

import (
	"context"
	"time"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/domain/attempt"
	"trainee_portal_backend/internal/domain/scoring"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/pkg/keylock"
	"trainee_portal_backend/pkg/logger"
	"trainee_portal_backend/pkg/monitoring"
	"trainee_portal_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type SubmitExamRequest struct {
	ExamID      string         `json:"examId" validate:"required"`
	TraineeSlug string         `json:"traineeSlug" validate:"required"`
	Answers     map[string]int `json:"answers" validate:"required"`
}

type SubmitExamResult struct {
	Submission model.ExamSubmission `json:"submission"`
	Attempts   attempt.Summary      `json:"attempts"`
}

// PublicQuestion 下发给学员的题目，不含正确答案
type PublicQuestion struct {
	ID         string           `json:"id"`
	Question   string           `json:"question"`
	Options    []string         `json:"options"`
	Difficulty model.Difficulty `json:"difficulty"`
	Points     int              `json:"points"`
}

type ExamView struct {
	ID               string           `json:"id"`
	ModuleID         string           `json:"moduleId"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	PassingScore     int              `json:"passingScore"`
	TotalPoints      int              `json:"totalPoints"`
	Questions        []PublicQuestion `json:"questions"`
	WilloLink        string           `json:"willoLink,omitempty"`
	WilloDescription string           `json:"willoDescription,omitempty"`
	Attempts         attempt.Summary  `json:"attempts"`
}

type AttemptHistory struct {
	Submissions []model.ExamSubmission `json:"submissions"`
	Summary     attempt.Summary        `json:"summary"`
}

type Notifier interface {
	NotifySubmission(sub model.ExamSubmission, exam *model.Exam, loc *time.Location)
}

type ExamService struct {
	Content     *content.Store
	Submissions *repository.SubmissionRepository
	Notifier    Notifier
	Now         func() time.Time

	// 同一学员同一考试的提交串行执行，保证上限检查与写入之间没有竞态
	locks *keylock.Locker
}

func NewExamService(contentStore *content.Store, submissions *repository.SubmissionRepository, notifier Notifier) *ExamService {
	return &ExamService{
		Content:     contentStore,
		Submissions: submissions,
		Notifier:    notifier,
		Now:         time.Now,
		locks:       keylock.New(),
	}
}

// Submit 校验重考限制、评分、保存并异步通知
func (s *ExamService) Submit(ctx context.Context, req SubmitExamRequest) (result *SubmitExamResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ExamService.Submit",
		attribute.String("exam.id", req.ExamID),
		attribute.String("trainee.slug", req.TraineeSlug))
	defer func() { tracing.EndSpan(span, err) }()

	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	catalog := s.Content.Current()
	exam, err := catalog.Exam(req.ExamID)
	if err != nil {
		return nil, err
	}
	trainee, err := catalog.Trainee(req.TraineeSlug)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(trainee.Slug + "|" + exam.ID)
	defer unlock()

	history, err := s.Submissions.ListForAttempts(ctx, trainee.Slug, exam.ID)
	if err != nil {
		return nil, err
	}
	if err := attempt.Check(history); err != nil {
		monitoring.ExamSubmissions.WithLabelValues(exam.ID, "rejected").Inc()
		logger.Log.Info("Exam submission rejected",
			zap.String("trainee", trainee.Slug),
			zap.String("exam", exam.ID),
			zap.Error(err))
		return nil, err
	}

	scored := scoring.Score(exam, req.Answers)
	sub := model.ExamSubmission{
		ExamID:      exam.ID,
		TraineeSlug: trainee.Slug,
		TraineeName: trainee.Name,
		Answers:     req.Answers,
		Score:       scored.Score,
		TotalPoints: scored.TotalPoints,
		Percentage:  scored.Percentage,
		Passed:      scored.Passed,
		SubmittedAt: s.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.Submissions.Create(ctx, &sub); err != nil {
		logger.Log.Error("Failed to save exam submission",
			zap.String("trainee", trainee.Slug),
			zap.String("exam", exam.ID),
			zap.Error(err))
		return nil, err
	}

	outcome := "failed"
	if sub.Passed {
		outcome = "passed"
	}
	monitoring.ExamSubmissions.WithLabelValues(exam.ID, outcome).Inc()
	logger.Log.Info("Exam submitted",
		zap.String("trainee", trainee.Slug),
		zap.String("exam", exam.ID),
		zap.Int("percentage", sub.Percentage),
		zap.Bool("passed", sub.Passed),
		zap.Int("attempt", len(history)+1))

	if s.Notifier != nil {
		s.Notifier.NotifySubmission(sub, exam, catalog.Location)
	}

	return &SubmitExamResult{
		Submission: sub,
		Attempts:   attempt.Summarize(append(history, sub)),
	}, nil
}

// GetExam 返回不含答案的考试内容和当前重考状态
func (s *ExamService) GetExam(ctx context.Context, traineeSlug, examID string) (*ExamView, error) {
	catalog := s.Content.Current()
	exam, err := catalog.Exam(examID)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.Trainee(traineeSlug); err != nil {
		return nil, err
	}

	history, err := s.Submissions.ListForAttempts(ctx, traineeSlug, examID)
	if err != nil {
		return nil, err
	}

	view := &ExamView{
		ID:               exam.ID,
		ModuleID:         exam.ModuleID,
		Title:            exam.Title,
		Description:      exam.Description,
		PassingScore:     exam.PassingScore,
		TotalPoints:      exam.TotalPoints(),
		Questions:        make([]PublicQuestion, 0, len(exam.Questions)),
		WilloLink:        exam.WilloLink,
		WilloDescription: exam.WilloDescription,
		Attempts:         attempt.Summarize(history),
	}
	for _, q := range exam.Questions {
		view.Questions = append(view.Questions, PublicQuestion{
			ID:         q.ID,
			Question:   q.Prompt,
			Options:    q.Options,
			Difficulty: q.Difficulty,
			Points:     q.Points,
		})
	}
	return view, nil
}

// GetExamForModule 按模块查找考试
func (s *ExamService) GetExamForModule(ctx context.Context, traineeSlug, moduleID string) (*ExamView, error) {
	exam, err := s.Content.Current().ExamForModule(moduleID)
	if err != nil {
		return nil, err
	}
	return s.GetExam(ctx, traineeSlug, exam.ID)
}

// Attempts 学员自己的提交历史（按时间升序）
func (s *ExamService) Attempts(ctx context.Context, traineeSlug, examID string) (*AttemptHistory, error) {
	catalog := s.Content.Current()
	if _, err := catalog.Exam(examID); err != nil {
		return nil, err
	}
	if _, err := catalog.Trainee(traineeSlug); err != nil {
		return nil, err
	}
	history, err := s.Submissions.ListForAttempts(ctx, traineeSlug, examID)
	if err != nil {
		return nil, err
	}
	return &AttemptHistory{Submissions: attempt.Ordered(history), Summary: attempt.Summarize(history)}, nil
}

// ListResults 管理端考试结果，按提交时间倒序
func (s *ExamService) ListResults(ctx context.Context, traineeSlug, examID string) ([]model.ExamSubmission, error) {
	return s.Submissions.List(ctx, traineeSlug, examID)
}
