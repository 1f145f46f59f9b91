package scheduler

import (
	"context"
	"log/slog"
	"time"

	"trendwatch/internal/domain"
)

// Collector runs a collection for one country.
type Collector interface {
	CollectTrendingContents(ctx context.Context, country, source string) (*domain.CollectionReport, error)
}

// Scheduler triggers a collection run for each configured country on a fixed
// interval, starting with an immediate run.
type Scheduler struct {
	collector Collector
	interval  time.Duration
	countries []string
	logger    *slog.Logger
}

func NewScheduler(collector Collector, interval time.Duration, countries []string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		collector: collector,
		interval:  interval,
		countries: countries,
		logger:    logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "countries", s.countries)

	s.runAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	for _, country := range s.countries {
		if ctx.Err() != nil {
			return
		}
		report, err := s.collector.CollectTrendingContents(ctx, country, "auto")
		if err != nil {
			s.logger.Error("scheduled collection failed", "country", country, "error", err)
			continue
		}
		s.logger.Info("scheduled collection finished",
			"country", country,
			"success", report.Success,
			"videos", report.Stats.Videos,
			"articles", report.Stats.Articles,
		)
	}
}
