package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gartstein/catalog/internal/company/catalog"
	"github.com/gartstein/catalog/internal/company/config"
	e "github.com/gartstein/catalog/internal/company/errors"
	"github.com/gartstein/catalog/internal/company/events"
	"github.com/gartstein/catalog/internal/company/models"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	opts := []catalog.Option{catalog.WithLogger(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopic(cfg.KafkaBrokers, cfg.Topic, logger); err != nil {
			logger.Fatal("failed to initialize Kafka topic", zap.Error(err))
		}
		producer := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		defer producer.Close()
		opts = append(opts, catalog.WithProducer(producer))
	}

	company := catalog.NewCompany(cfg.CompanyName, opts...)
	seed(company, cfg.Games, logger)
	report(company, logger)

	if cfg.WatchEvents && len(cfg.KafkaBrokers) > 0 {
		watch(cfg, logger)
	}
}

// initLogger initializes a Zap production logger at the given level.
func initLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// seed admits every configured game, skipping the ones that fail validation.
func seed(company *catalog.Company, games []config.GameConfig, logger *zap.Logger) {
	for _, gc := range games {
		game, err := gc.ToGame()
		if err != nil {
			logger.Warn("Skipping malformed seed game", zap.Error(err))
			continue
		}
		if err := company.Admit(game); err != nil {
			logger.Warn("Seed game rejected", zap.String("code", gc.Code), zap.Error(err))
		}
	}
	logger.Info("Catalog seeded",
		zap.String("company", company.Name()),
		zap.String("company_id", company.ID().String()),
		zap.Int("games", company.Len()),
	)
}

func report(company *catalog.Company, logger *zap.Logger) {
	best, err := company.BestRated()
	switch {
	case errors.Is(err, e.ErrGameNotFound):
		logger.Info("No games in catalog")
	case err != nil:
		logger.Error("Best-rated query failed", zap.Error(err))
	default:
		logger.Info("Best-rated game",
			zap.String("code", best.Code),
			zap.String("name", best.Name),
			zap.Float64("rating", *best.Rating),
			zap.Stringer("release_date", best.ReleaseDate),
		)
	}

	today := models.DateOf(time.Now())
	start := models.NewDate(today.Year, time.January, 1)
	games, err := company.FindByPeriod(&start, &today)
	if err != nil {
		logger.Error("Period query failed", zap.Error(err))
		return
	}
	for _, g := range games {
		logger.Info("Released this year", zap.String("code", g.Code), zap.String("name", g.Name))
	}
}

// watch logs catalog events from Kafka until an interrupt or SIGTERM is received.
func watch(cfg *config.Config, logger *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(func(_ context.Context, ev events.Event) error {
		code := ""
		if ev.Game != nil {
			code = ev.Game.Code
		}
		logger.Info("Catalog event",
			zap.String("event_type", string(ev.Type)),
			zap.String("company_id", ev.CompanyID.String()),
			zap.String("code", code),
		)
		return nil
	})
	consumer.Start(ctx)

	<-ctx.Done()
	logger.Info("Watcher stopped properly")
}
