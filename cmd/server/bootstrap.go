package main

import (
	"fmt"

	"github.com/brainfuel/backend/internal/config"
	"github.com/brainfuel/backend/internal/middleware"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/internal/services"
	"github.com/brainfuel/backend/internal/utils"
	"github.com/brainfuel/backend/pkg/logger"
)

const (
	authRateLimitRPS   = 1
	authRateLimitBurst = 10
)

// app holds the process-wide dependencies shared by the routes.
type app struct {
	cfg         *config.Config
	gw          *models.Gateway
	authLimiter *middleware.RateLimiter
	scores      *services.ScoreService
}

// bootstrap opens the database, applies the schema and seeds the category vocabulary.
func bootstrap(cfg *config.Config) (*app, error) {
	utils.SetJWTSecret(cfg.JWT.Secret)
	if cfg.IsProduction() && cfg.JWT.Secret == config.DefaultConfig().JWT.Secret {
		logger.Warn().Msg("JWT_SECRET is not set; using the built-in development secret")
	}

	gw := models.NewGateway(&cfg.Database)
	db, err := gw.DB()
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		gw.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err := models.SeedDefaultData(db); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	scores := services.NewScoreService(gw, cfg.Score)
	if err := scores.StartScheduler(); err != nil {
		gw.Close()
		return nil, fmt.Errorf("start score scheduler: %w", err)
	}

	return &app{
		cfg:         cfg,
		gw:          gw,
		authLimiter: middleware.NewRateLimiter(authRateLimitRPS, authRateLimitBurst),
		scores:      scores,
	}, nil
}

// shutdown releases the database handle and stops background work.
func (a *app) shutdown() {
	a.authLimiter.Stop()
	a.scores.StopScheduler()
	if err := a.gw.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
	}
	logger.Info().Msg("Resources released")
}
