package jobs

import (
	"context"
	"log/slog"
	"time"
)

type ExpiringStore interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically purges expired session and passcode rows.
// It is tied to the process context so shutdown cancels the ticker.
type Sweeper struct {
	Sessions ExpiringStore
	OTPs     ExpiringStore
	Interval time.Duration
	Now      func() time.Time
}

func NewSweeper(sessions, otps ExpiringStore, interval time.Duration) *Sweeper {
	return &Sweeper{
		Sessions: sessions,
		OTPs:     otps,
		Interval: interval,
		Now:      time.Now,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.Now()
	if s.Sessions != nil {
		if removed, err := s.Sessions.DeleteExpired(ctx, now); err != nil {
			slog.Warn("session sweep failed", "err", err)
		} else if removed > 0 {
			slog.Info("expired sessions purged", "count", removed)
		}
	}
	if s.OTPs != nil {
		if removed, err := s.OTPs.DeleteExpired(ctx, now); err != nil {
			slog.Warn("otp sweep failed", "err", err)
		} else if removed > 0 {
			slog.Info("expired passcodes purged", "count", removed)
		}
	}
}
