package attempt_test

import (
	"errors"
	"testing"
	"time"

	"trainee_portal_backend/internal/domain/attempt"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
)

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func submission(offset time.Duration, pct int, passed bool) model.ExamSubmission {
	return model.ExamSubmission{
		ExamID:      "exam-module-1",
		TraineeSlug: "krishna-patel",
		Percentage:  pct,
		Passed:      passed,
		SubmittedAt: base.Add(offset),
	}
}

func TestEmptyHistory(t *testing.T) {
	s := attempt.Summarize(nil)

	if s.State != attempt.StateNoAttempts {
		t.Errorf("expected no_attempts, got %s", s.State)
	}
	if !s.CanSubmit || s.AttemptsRemaining != attempt.MaxAttempts {
		t.Errorf("expected full allowance, got %+v", s)
	}
	if s.BestPercentage != nil {
		t.Errorf("expected no best percentage, got %d", *s.BestPercentage)
	}
}

func TestThirdAttemptAllowedFourthRejected(t *testing.T) {
	history := []model.ExamSubmission{
		submission(0, 40, false),
		submission(time.Hour, 60, false),
	}

	if !attempt.CanSubmit(history) {
		t.Fatal("expected third attempt to be allowed")
	}

	history = append(history, submission(2*time.Hour, 65, false))
	err := attempt.Check(history)
	if !errors.Is(err, util.ErrAttemptLimitExceeded) {
		t.Fatalf("expected attempt limit error, got %v", err)
	}

	var limitErr *util.AttemptLimitError
	if !errors.As(err, &limitErr) || limitErr.Reason != util.ReasonLimitReached {
		t.Errorf("expected limit_reached reason, got %v", err)
	}
	if got := attempt.CurrentState(history); got != attempt.StateExhausted {
		t.Errorf("expected exhausted, got %s", got)
	}
}

func TestPassingThirdAttemptEndsInPassed(t *testing.T) {
	history := []model.ExamSubmission{
		submission(0, 40, false),
		submission(time.Hour, 60, false),
		submission(2*time.Hour, 100, true),
	}

	s := attempt.Summarize(history)
	if s.State != attempt.StatePassed {
		t.Errorf("expected passed, got %s", s.State)
	}
	if s.CanSubmit || s.Reason != util.ReasonAlreadyPassed {
		t.Errorf("expected already_passed rejection, got %+v", s)
	}
}

func TestPassedBlocksRegardlessOfRemainingCap(t *testing.T) {
	history := []model.ExamSubmission{submission(0, 90, true)}

	if attempt.CanSubmit(history) {
		t.Error("expected submission to be blocked after a pass")
	}
	// 剩余次数只按上限计算
	if got := attempt.AttemptsRemaining(history); got != 2 {
		t.Errorf("expected 2 remaining, got %d", got)
	}
}

func TestAttemptsRemainingNeverNegative(t *testing.T) {
	history := make([]model.ExamSubmission, 0, 5)
	for i := 0; i < 5; i++ {
		history = append(history, submission(time.Duration(i)*time.Minute, 10, false))
	}

	if got := attempt.AttemptsRemaining(history); got != 0 {
		t.Errorf("expected 0 remaining, got %d", got)
	}
	if attempt.CanSubmit(history) {
		t.Error("expected submission to be blocked")
	}
}

func TestBestPercentage(t *testing.T) {
	history := []model.ExamSubmission{
		submission(0, 55, false),
		submission(time.Hour, 80, false),
		submission(2*time.Hour, 70, false),
	}

	best, ok := attempt.BestPercentage(history)
	if !ok || best != 80 {
		t.Errorf("expected best 80, got %d (ok=%v)", best, ok)
	}
}

func TestOrderedSortsAscendingWithoutMutatingInput(t *testing.T) {
	history := []model.ExamSubmission{
		submission(2*time.Hour, 3, false),
		submission(0, 1, false),
		submission(time.Hour, 2, false),
	}

	ordered := attempt.Ordered(history)
	for i, s := range ordered {
		if s.Percentage != i+1 {
			t.Fatalf("expected ascending order, got %v at %d", s.Percentage, i)
		}
	}
	if history[0].Percentage != 3 {
		t.Error("expected input slice to be left untouched")
	}
}
