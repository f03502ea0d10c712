package usecase

import (
	"context"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UserLister enumerates users whose days should be swept.
type UserLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// Sweeper periodically recomputes today and yesterday for every user. It
// covers records written straight to an external diary, which never pass
// through the record-write path.
type Sweeper struct {
	users       UserLister
	engine      Recomputer
	loc         *time.Location
	interval    time.Duration
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

func NewSweeper(users UserLister, engine Recomputer, loc *time.Location, interval time.Duration, concurrency int, logger *zap.Logger) *Sweeper {
	if loc == nil {
		loc = time.UTC
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sweeper{
		users:       users,
		engine:      engine,
		loc:         loc,
		interval:    interval,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Warn("alert sweep failed", zap.Error(err))
			}
		}
	}
}

type SweepReport struct {
	Users  int
	Failed int
}

// SweepOnce recomputes the current and previous local day of each user.
// Per-user failures are logged and counted, not returned.
func (s *Sweeper) SweepOnce(ctx context.Context) (SweepReport, error) {
	userIDs, err := s.users.ListIDs(ctx)
	if err != nil {
		return SweepReport{}, err
	}

	today := s.now().In(s.loc)
	dates := []string{today.AddDate(0, 0, -1).Format(domain.DateLayout), today.Format(domain.DateLayout)}

	failures := make(chan struct{}, len(userIDs)*len(dates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for _, userID := range userIDs {
		group.Go(func() error {
			for _, date := range dates {
				if _, err := s.engine.RecomputeAndNotify(groupCtx, userID, date); err != nil {
					s.logger.Warn("sweep recompute failed", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
					failures <- struct{}{}
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return SweepReport{}, err
	}
	close(failures)

	report := SweepReport{Users: len(userIDs), Failed: len(failures)}
	s.logger.Info("alert sweep complete", zap.Int("users", report.Users), zap.Int("failed", report.Failed))
	return report, nil
}
