package model

import "time"

// swagger:model Trainee
type Trainee struct {
	ID        string    `mapstructure:"id" json:"id"`
	Name      string    `mapstructure:"name" json:"name" validate:"required"`
	Slug      string    `mapstructure:"slug" json:"slug" validate:"required"`
	StartDate string    `mapstructure:"start_date" json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	Start     time.Time `mapstructure:"-" json:"-"`
}

type ChecklistItem struct {
	ID            string `mapstructure:"id" json:"id" validate:"required"`
	Label         string `mapstructure:"label" json:"label"`
	Link          string `mapstructure:"link" json:"link,omitempty"`
	AudioLink     string `mapstructure:"audio_link" json:"audioLink,omitempty"`
	EstimatedTime string `mapstructure:"estimated_time" json:"estimatedTime,omitempty"`
	IsSection     bool   `mapstructure:"is_section" json:"isSection,omitempty"` // 分组标题，不计入进度
}

type Resource struct {
	Label string `mapstructure:"label" json:"label"`
	URL   string `mapstructure:"url" json:"url"`
}

type Questionnaire struct {
	ID            string `mapstructure:"id" json:"id"`
	Title         string `mapstructure:"title" json:"title"`
	Description   string `mapstructure:"description" json:"description"`
	AfterItemID   string `mapstructure:"after_item_id" json:"afterItemId"`
	WilloLink     string `mapstructure:"willo_link" json:"willoLink,omitempty"`
	QuestionCount int    `mapstructure:"question_count" json:"questionCount,omitempty"`
}

// swagger:model Module
type Module struct {
	ID             string          `mapstructure:"id" json:"id" validate:"required"`
	Title          string          `mapstructure:"title" json:"title"`
	Purpose        string          `mapstructure:"purpose" json:"purpose"`
	Proficiency    []string        `mapstructure:"proficiency" json:"proficiency"`
	Deliverable    string          `mapstructure:"deliverable" json:"deliverable"`
	Checklist      []ChecklistItem `mapstructure:"checklist" json:"checklist" validate:"dive"`
	Resources      []Resource      `mapstructure:"resources" json:"resources,omitempty"`
	Questionnaires []Questionnaire `mapstructure:"questionnaires" json:"questionnaires,omitempty"`
}

// ChecklistIDs 返回计入进度的条目 ID（跳过分组标题）
func (m *Module) ChecklistIDs() []string {
	ids := make([]string, 0, len(m.Checklist))
	for _, item := range m.Checklist {
		if item.IsSection {
			continue
		}
		ids = append(ids, item.ID)
	}
	return ids
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Question struct {
	ID            string     `mapstructure:"id" json:"id" validate:"required"`
	Prompt        string     `mapstructure:"question" json:"question" validate:"required"`
	Options       []string   `mapstructure:"options" json:"options" validate:"min=2"`
	CorrectAnswer int        `mapstructure:"correct_answer" json:"correctAnswer"` // 正确选项下标（从 0 开始）
	Difficulty    Difficulty `mapstructure:"difficulty" json:"difficulty"`
	Points        int        `mapstructure:"points" json:"points" validate:"gt=0"`
}

// swagger:model Exam
type Exam struct {
	ID               string     `mapstructure:"id" json:"id" validate:"required"`
	ModuleID         string     `mapstructure:"module_id" json:"moduleId" validate:"required"`
	Title            string     `mapstructure:"title" json:"title"`
	Description      string     `mapstructure:"description" json:"description"`
	PassingScore     int        `mapstructure:"passing_score" json:"passingScore" validate:"min=0,max=100"` // 及格百分比
	Questions        []Question `mapstructure:"questions" json:"questions" validate:"dive"`
	WilloLink        string     `mapstructure:"willo_link" json:"willoLink,omitempty"`
	WilloDescription string     `mapstructure:"willo_description" json:"willoDescription,omitempty"`
}

func (e *Exam) TotalPoints() int {
	total := 0
	for _, q := range e.Questions {
		total += q.Points
	}
	return total
}

// ProgramWeek 培训周：Start/End 为学员本地日历日（周一至周五）
type ProgramWeek struct {
	Index    int             `mapstructure:"index" json:"index"`
	Label    string          `mapstructure:"label" json:"label"`
	Phase    string          `mapstructure:"phase" json:"phase"` // training / ramp / standard / maintain
	StartStr string          `mapstructure:"start" json:"start"`
	EndStr   string          `mapstructure:"end" json:"end"`
	Standard ActivityMetrics `mapstructure:"standard" json:"standard"`
	Start    time.Time       `mapstructure:"-" json:"-"`
	End      time.Time       `mapstructure:"-" json:"-"`
}
