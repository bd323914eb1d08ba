package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type fakeExpirer struct {
	cutoff  time.Time
	expired int
	err     error
}

func (f *fakeExpirer) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	f.cutoff = cutoff
	return f.expired, f.err
}

func TestOrderTTLJobUsesConfiguredTTL(t *testing.T) {
	expirer := &fakeExpirer{expired: 3}
	job, err := NewOrderTTLJob(OrderTTLJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Orders:     expirer,
		PendingTTL: 48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	fixed := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	job.(*orderTTLJob).now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	want := fixed.Add(-48 * time.Hour)
	if !expirer.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, expirer.cutoff)
	}
}

func TestOrderTTLJobSurfacesErrors(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db down")}
	job, err := NewOrderTTLJob(OrderTTLJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Orders: expirer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error from failed expiration")
	}
}
