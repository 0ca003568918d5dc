package model

import "time"

// ExamSubmission 一次考试提交，创建后不可修改；重考会生成新记录
// swagger:model ExamSubmission
type ExamSubmission struct {
	ID          string         `json:"id,omitempty"`
	ExamID      string         `json:"examId"`
	TraineeSlug string         `json:"traineeSlug"`
	TraineeName string         `json:"traineeName"`
	Answers     map[string]int `json:"answers"`
	Score       int            `json:"score"`
	TotalPoints int            `json:"totalPoints"`
	Percentage  int            `json:"percentage"`
	Passed      bool           `json:"passed"`
	SubmittedAt time.Time      `json:"submittedAt"`
}
