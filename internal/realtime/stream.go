// Package realtime produces the admin dashboard's live metrics feed.
package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"golang.org/x/sync/errgroup"
)

const DefaultInterval = 5 * time.Second

type UserStatter interface {
	Stats(ctx context.Context) (models.UserStats, error)
}

type SubscriptionStatter interface {
	Stats(ctx context.Context) (models.SubscriptionStats, error)
}

// Snapshot is one message on the stream.
type Snapshot struct {
	Users         models.UserStats         `json:"userStats"`
	Subscriptions models.SubscriptionStats `json:"subscriptionStats"`
	Timestamp     time.Time                `json:"timestamp"`
}

// Stream recomputes a Snapshot every Interval.
type Stream struct {
	Users         UserStatter
	Subscriptions SubscriptionStatter
	Interval      time.Duration
	Log           *slog.Logger
	Now           func() time.Time
}

// Snapshot runs both stats queries concurrently.
func (s *Stream) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Users.Stats(gctx)
		snap.Users = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.Subscriptions.Stats(gctx)
		snap.Subscriptions = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.Timestamp = s.now()
	return snap, nil
}

// Run emits a snapshot right away and then once per tick until ctx is done or emit
// fails. A snapshot that cannot be computed is logged and skipped.
func (s *Stream) Run(ctx context.Context, emit func(Snapshot) error) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := s.Snapshot(ctx)
		switch {
		case err == nil:
			if err := emit(snap); err != nil {
				return err
			}
		case ctx.Err() != nil:
			return nil
		default:
			s.logger().Error("metrics snapshot failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Stream) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Stream) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
