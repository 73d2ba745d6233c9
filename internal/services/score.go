package services

import (
	"context"
	"time"

	"github.com/brainfuel/backend/internal/config"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const scoreRefreshTimeout = 30 * time.Second

// ScoreService keeps projects.score in line with support and view counts.
type ScoreService struct {
	gw            *models.Gateway
	cfg           config.ScoreConfig
	cronScheduler *cron.Cron
}

func NewScoreService(gw *models.Gateway, cfg config.ScoreConfig) *ScoreService {
	return &ScoreService{gw: gw, cfg: cfg}
}

// Refresh recomputes every project's score and returns the number of rows touched.
func (s *ScoreService) Refresh(ctx context.Context) (int64, error) {
	res, err := s.gw.Execute(ctx,
		"UPDATE projects SET score = support_count * ? + views * ?",
		s.cfg.SupportWeight, s.cfg.ViewWeight)
	if err != nil {
		return 0, err
	}
	return res.RowsChanged, nil
}

// StartScheduler runs Refresh on the configured cron schedule. An empty
// schedule leaves the scheduler off.
func (s *ScoreService) StartScheduler() error {
	if s.cfg.Schedule == "" {
		logger.Info().Msg("[Score] Refresh disabled")
		return nil
	}

	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc(s.cfg.Schedule, s.runRefresh); err != nil {
		s.cronScheduler = nil
		return err
	}

	s.cronScheduler.Start()
	logger.Info().Str("schedule", s.cfg.Schedule).Msg("[Score] Scheduler started")
	return nil
}

// StopScheduler stops the scheduler and waits for a running refresh to finish.
func (s *ScoreService) StopScheduler() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
	}
}

func (s *ScoreService) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), scoreRefreshTimeout)
	defer cancel()

	n, err := s.Refresh(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("[Score] Refresh failed")
		return
	}
	logger.Debug().Int64("projects", n).Msg("[Score] Refreshed")
}
