package service_test

import (
	"context"
	"errors"
	"testing"
	"trainee_portal_backend/internal/domain/activity"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"
)

func newActivityService(t *testing.T, now string) (*service.ActivityService, *flakyStore) {
	store := newFlakyStore()
	svc := service.NewActivityService(testContent(t), repository.NewActivityRepository(store, "DailyActivity"))
	svc.Now = fixedNow(now)
	return svc, store
}

func amount(v float64) *float64 { return &v }

func TestActivity_TodayDefaultsToZero(t *testing.T) {
	svc, _ := newActivityService(t, "2026-02-24T09:00:00Z")

	rec, err := svc.Today(context.Background(), "krishna-patel")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "" || rec.Date != "2026-02-24" || rec.Calls != 0 {
		t.Errorf("today = %+v", rec)
	}
}

func TestActivity_IncrementAndSetUpdateInPlace(t *testing.T) {
	svc, _ := newActivityService(t, "2026-02-24T09:00:00Z")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Increment(ctx, "krishna-patel", service.IncrementRequest{Metric: "calls"}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Increment(ctx, "krishna-patel", service.IncrementRequest{Metric: "calls", Amount: amount(-1)}); err != nil {
		t.Fatal(err)
	}
	rec, err := svc.Set(ctx, "krishna-patel", service.SetMetricRequest{Metric: "revenue", Value: 250})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Calls != 2 || rec.Revenue != 250 || rec.TraineeName != "Krishna Patel" {
		t.Errorf("record = %+v", rec)
	}

	all, _ := svc.List(ctx, "krishna-patel")
	if len(all) != 1 {
		t.Errorf("records = %d, want one per day", len(all))
	}
}

func TestActivity_RejectsInvalidInput(t *testing.T) {
	svc, _ := newActivityService(t, "2026-02-24T09:00:00Z")
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"unknown metric", func() error {
			_, err := svc.Increment(ctx, "krishna-patel", service.IncrementRequest{Metric: "emails"})
			return err
		}, util.ErrValidation},
		{"below zero", func() error {
			_, err := svc.Increment(ctx, "krishna-patel", service.IncrementRequest{Metric: "units", Amount: amount(-1)})
			return err
		}, util.ErrValidation},
		{"negative set", func() error {
			_, err := svc.Set(ctx, "krishna-patel", service.SetMetricRequest{Metric: "revenue", Value: -5})
			return err
		}, util.ErrValidation},
		{"unknown trainee", func() error {
			_, err := svc.Today(ctx, "nobody")
			return err
		}, util.ErrNotFound},
		{"unknown week", func() error {
			week := 7
			_, err := svc.Week(ctx, "krishna-patel", &week)
			return err
		}, util.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestActivity_WeekAndScorecard(t *testing.T) {
	svc, _ := newActivityService(t, "2026-02-23T09:00:00Z")
	ctx := context.Background()

	svc.Set(ctx, "krishna-patel", service.SetMetricRequest{Metric: "calls", Value: 40})
	svc.Now = fixedNow("2026-02-24T09:00:00Z")
	svc.Set(ctx, "krishna-patel", service.SetMetricRequest{Metric: "calls", Value: 30})
	svc.Set(ctx, "krishna-patel", service.SetMetricRequest{Metric: "bookings", Value: 3})
	svc.Set(ctx, "krishna-patel", service.SetMetricRequest{Metric: "meetings", Value: 0.4})

	week, err := svc.Week(ctx, "krishna-patel", nil)
	if err != nil {
		t.Fatal(err)
	}
	if week.Week.Index != 1 || len(week.Records) != 2 || week.Totals.Calls != 70 || week.Target.Calls != 300 {
		t.Errorf("week = %+v", week)
	}

	sc, err := svc.Scorecard(ctx, "krishna-patel")
	if err != nil {
		t.Fatal(err)
	}
	// calls 50 (no inversion span), bookings/meetings/units/revenue 100
	if sc.WeekIndex != 1 || sc.DayName != "Tuesday" || sc.Today.Aggregate != 90 || sc.Today.Status != activity.StatusClose {
		t.Errorf("scorecard = %+v", sc)
	}
}

func TestActivity_UpstreamFailure(t *testing.T) {
	svc, store := newActivityService(t, "2026-02-24T09:00:00Z")
	store.set(true, false)

	if _, err := svc.Increment(context.Background(), "krishna-patel", service.IncrementRequest{Metric: "calls"}); !errors.Is(err, util.ErrUpstreamUnavailable) {
		t.Errorf("got %v", err)
	}
}
