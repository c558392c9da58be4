package notification

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sweeper drops expired notifications on an hourly schedule.
type Sweeper struct {
	cron    *cron.Cron
	service NotificationService
	logger  *zap.Logger
}

func NewSweeper(lc fx.Lifecycle, service NotificationService, logger *zap.Logger) *Sweeper {
	s := &Sweeper{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := s.cron.AddFunc("@hourly", s.run); err != nil {
				return err
			}
			s.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-s.cron.Stop().Done()
			return nil
		},
	})

	return s
}

func (s *Sweeper) run() {
	deleted, err := s.service.SweepExpired(context.Background())
	if err != nil {
		s.logger.Warn("notification sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("expired notifications removed", zap.Int64("count", deleted))
	}
}
