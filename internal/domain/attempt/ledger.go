// Package attempt 根据某学员某场考试的提交历史推导重考状态
package attempt

import (
	"sort"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
)

// MaxAttempts 每位学员每场考试通过前最多可提交的次数
const MaxAttempts = 3

type State string

const (
	StateNoAttempts State = "no_attempts"
	StateInProgress State = "in_progress"
	StatePassed     State = "passed"
	StateExhausted  State = "exhausted"
)

// Summary 供前端渲染考试入口的门禁信息
type Summary struct {
	State             State  `json:"state"`
	AttemptsUsed      int    `json:"attemptsUsed"`
	MaxAttempts       int    `json:"maxAttempts"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
	HasPassed         bool   `json:"hasPassed"`
	BestPercentage    *int   `json:"bestPercentage"`
	CanSubmit         bool   `json:"canSubmit"`
	Reason            string `json:"reason,omitempty"`
}

// Ordered 按提交时间升序返回历史的副本
func Ordered(history []model.ExamSubmission) []model.ExamSubmission {
	out := make([]model.ExamSubmission, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

func AttemptsUsed(history []model.ExamSubmission) int {
	return len(history)
}

func HasPassed(history []model.ExamSubmission) bool {
	for _, s := range history {
		if s.Passed {
			return true
		}
	}
	return false
}

// BestPercentage 历史为空时返回 false
func BestPercentage(history []model.ExamSubmission) (int, bool) {
	if len(history) == 0 {
		return 0, false
	}
	best := history[0].Percentage
	for _, s := range history[1:] {
		if s.Percentage > best {
			best = s.Percentage
		}
	}
	return best, true
}

// AttemptsRemaining 仅按上限计算，已通过时不强制归零
func AttemptsRemaining(history []model.ExamSubmission) int {
	remaining := MaxAttempts - AttemptsUsed(history)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func CanSubmit(history []model.ExamSubmission) bool {
	return Check(history) == nil
}

// Check 在评分之前校验是否允许再次提交
func Check(history []model.ExamSubmission) error {
	used := AttemptsUsed(history)
	if HasPassed(history) {
		return &util.AttemptLimitError{Reason: util.ReasonAlreadyPassed, AttemptsUsed: used, MaxAttempts: MaxAttempts}
	}
	if used >= MaxAttempts {
		return &util.AttemptLimitError{Reason: util.ReasonLimitReached, AttemptsUsed: used, MaxAttempts: MaxAttempts}
	}
	return nil
}

func CurrentState(history []model.ExamSubmission) State {
	switch {
	case HasPassed(history):
		return StatePassed
	case AttemptsUsed(history) >= MaxAttempts:
		return StateExhausted
	case AttemptsUsed(history) == 0:
		return StateNoAttempts
	default:
		return StateInProgress
	}
}

func Summarize(history []model.ExamSubmission) Summary {
	s := Summary{
		State:             CurrentState(history),
		AttemptsUsed:      AttemptsUsed(history),
		MaxAttempts:       MaxAttempts,
		AttemptsRemaining: AttemptsRemaining(history),
		HasPassed:         HasPassed(history),
	}
	if best, ok := BestPercentage(history); ok {
		s.BestPercentage = &best
	}
	if err := Check(history); err != nil {
		s.Reason = err.(*util.AttemptLimitError).Reason
	} else {
		s.CanSubmit = true
	}
	return s
}
