package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
)

type fakeUsers struct {
	calls atomic.Int32
	fail  func(call int32) bool
}

func (f *fakeUsers) Stats(context.Context) (models.UserStats, error) {
	n := f.calls.Add(1)
	if f.fail != nil && f.fail(n) {
		return models.UserStats{}, errors.New("database unavailable")
	}
	return models.UserStats{Total: int64(n), Mentors: 1}, nil
}

type fakeSubs struct{}

func (fakeSubs) Stats(context.Context) (models.SubscriptionStats, error) {
	return models.SubscriptionStats{Total: 3, Active: 2, Cancelled: 1}, nil
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunEmitsImmediatelyThenPerTick(t *testing.T) {
	s := &Stream{Users: &fakeUsers{}, Subscriptions: fakeSubs{}, Interval: 10 * time.Millisecond, Log: quietLog()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []Snapshot
	err := s.Run(ctx, func(snap Snapshot) error {
		got = append(got, snap)
		if len(got) == 3 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(got))
	}
	if got[0].Subscriptions.Active != 2 || got[2].Users.Total != 3 {
		t.Fatalf("unexpected snapshots %+v", got)
	}
}

func TestRunFirstSnapshotBeforeTick(t *testing.T) {
	s := &Stream{Users: &fakeUsers{}, Subscriptions: fakeSubs{}, Interval: time.Hour, Log: quietLog()}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	emitted := false
	if err := s.Run(ctx, func(Snapshot) error {
		emitted = true
		cancel()
		return nil
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !emitted {
		t.Fatalf("expected a snapshot before the first tick")
	}
}

func TestRunSkipsFailedSnapshot(t *testing.T) {
	users := &fakeUsers{fail: func(call int32) bool { return call == 1 }}
	s := &Stream{Users: users, Subscriptions: fakeSubs{}, Interval: 5 * time.Millisecond, Log: quietLog()}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got []Snapshot
	err := s.Run(ctx, func(snap Snapshot) error {
		got = append(got, snap)
		cancel()
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 1 || got[0].Users.Total != 2 {
		t.Fatalf("expected the second snapshot after a skipped failure, got %+v", got)
	}
}

func TestRunStopsWhenEmitFails(t *testing.T) {
	s := &Stream{Users: &fakeUsers{}, Subscriptions: fakeSubs{}, Interval: time.Millisecond, Log: quietLog()}
	boom := errors.New("client gone")
	err := s.Run(context.Background(), func(Snapshot) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected emit error, got %v", err)
	}
}

func TestSnapshotWireFormat(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Stream{Users: &fakeUsers{}, Subscriptions: fakeSubs{}, Now: func() time.Time { return at }}
	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"userStats":{"total":1,"mentors":1,"mentees":0,"donors":0,"admins":0},` +
		`"subscriptionStats":{"total":3,"active":2,"inactive":0,"cancelled":1,"expired":0,"pending":0},` +
		`"timestamp":"2024-03-01T12:00:00Z"}`
	if string(body) != want {
		t.Fatalf("unexpected frame\n got: %s\nwant: %s", body, want)
	}
}
