package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/repository"
)

var errStoreDown = errors.New("store down")

func testDocument() content.Document {
	return content.Document{
		Timezone: "UTC",
		Trainees: []model.Trainee{
			{Name: "Krishna Patel", Slug: "krishna-patel"},
			{Name: "Jordan Lee", Slug: "jordan-lee"},
		},
		Modules: []model.Module{
			{ID: "module-1", Title: "Foundations", Checklist: []model.ChecklistItem{
				{ID: "m1-section", IsSection: true},
				{ID: "m1-1"}, {ID: "m1-2"}, {ID: "m1-3"}, {ID: "m1-4"},
			}},
			{ID: "module-2", Title: "Prospecting", Checklist: []model.ChecklistItem{{ID: "m2-1"}}},
		},
		Exams: []model.Exam{{
			ID: "exam-module-1", ModuleID: "module-1", Title: "Module 1 Exam", PassingScore: 70,
			Questions: []model.Question{
				{ID: "q1", Prompt: "First?", Options: []string{"a", "b", "c"}, CorrectAnswer: 1, Points: 2},
				{ID: "q2", Prompt: "Second?", Options: []string{"a", "b", "c"}, CorrectAnswer: 0, Points: 3},
				{ID: "q3", Prompt: "Third?", Options: []string{"a", "b", "c"}, CorrectAnswer: 2, Points: 5},
			},
		}},
		Weeks: []model.ProgramWeek{
			{Index: 0, Label: "Training", StartStr: "2026-02-16", EndStr: "2026-02-20"},
			{Index: 1, Label: "Week 1", StartStr: "2026-02-23", EndStr: "2026-02-27",
				Standard: model.ActivityMetrics{Calls: 60, Bookings: 3, Meetings: 0.4}},
			{Index: 2, Label: "Week 2", StartStr: "2026-03-02", EndStr: "2026-03-06",
				Standard: model.ActivityMetrics{Calls: 50, Bookings: 3.2, Meetings: 1.6, Units: 0.2, Revenue: 100}},
		},
	}
}

func testContent(t *testing.T) *content.Store {
	t.Helper()
	c, err := content.Build(testDocument())
	if err != nil {
		t.Fatalf("build content: %v", err)
	}
	return content.NewStaticStore(c)
}

func fixedNow(ts string) func() time.Time {
	at, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return at }
}

var (
	allCorrect = map[string]int{"q1": 1, "q2": 0, "q3": 2}
	allWrong   = map[string]int{"q1": 0, "q2": 1, "q3": 0}
)

// flakyStore 可按需让查询或写入失败的内存存储
type flakyStore struct {
	*repository.MemoryStore

	mu         sync.Mutex
	failFind   bool
	failCreate bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repository.NewMemoryStore()}
}

func (s *flakyStore) set(find, create bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFind, s.failCreate = find, create
}

func (s *flakyStore) Find(ctx context.Context, table string, c repository.Criteria) ([]repository.Record, error) {
	s.mu.Lock()
	fail := s.failFind
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.MemoryStore.Find(ctx, table, c)
}

func (s *flakyStore) Create(ctx context.Context, table string, fields map[string]interface{}) (repository.Record, error) {
	s.mu.Lock()
	fail := s.failCreate
	s.mu.Unlock()
	if fail {
		return repository.Record{}, errStoreDown
	}
	return s.MemoryStore.Create(ctx, table, fields)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.ExamSubmission
}

func (n *recordingNotifier) NotifySubmission(sub model.ExamSubmission, _ *model.Exam, _ *time.Location) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sub)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
