// Package scoring 按答案键为选择题考试评分，纯函数，无副作用
package scoring

import (
	"math"
	"trainee_portal_backend/internal/model"
)

type Result struct {
	Score       int  `json:"score"`
	TotalPoints int  `json:"totalPoints"`
	Percentage  int  `json:"percentage"`
	Passed      bool `json:"passed"`
}

// Score 只有所选下标与正确下标完全相同才得分；缺失、越界或未知题目 ID 均不计分
func Score(exam *model.Exam, answers map[string]int) Result {
	if exam == nil {
		return Result{}
	}

	score := 0
	for _, q := range exam.Questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		if selected == q.CorrectAnswer {
			score += q.Points
		}
	}

	total := exam.TotalPoints()
	pct := Percentage(score, total)

	return Result{
		Score:       score,
		TotalPoints: total,
		Percentage:  pct,
		Passed:      pct >= exam.PassingScore,
	}
}

// Percentage 四舍五入到整数，total 为 0 时返回 0
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}
