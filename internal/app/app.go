package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/VladPetriv/flastel/config"
	"github.com/VladPetriv/flastel/internal/migrations"
	"github.com/VladPetriv/flastel/internal/store"
	"github.com/VladPetriv/flastel/pkg/bot"
	"github.com/VladPetriv/flastel/pkg/database"
	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/VladPetriv/flastel/pkg/money"
	"github.com/VladPetriv/flastel/pkg/router"
)

// Run is used to start the application. It polls updates until SIGINT or SIGTERM is received.
func Run(cfg *config.Config, logger *logger.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("run application")
	}

	logger.Info().Msg("application stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logger.Logger) error {
	price, err := money.NewFromString(cfg.Payments.Price, cfg.Payments.Currency)
	if err != nil {
		return fmt.Errorf("parse payment price: %w", err)
	}

	telegram, err := bot.NewTelegram(bot.TelegramOptions{
		Token:       cfg.Telegram.BotToken,
		APIServer:   cfg.Telegram.APIServer,
		PollTimeout: cfg.Polling.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create telegram client: %w", err)
	}
	defer telegram.Close()

	// Bot API refuses getUpdates while a webhook is set.
	err = telegram.DeleteWebhook()
	if err != nil {
		return err
	}

	r := router.New(router.Options{Logger: logger})
	newHandlers(handlersOptions{
		Logger:        logger,
		API:           telegram,
		Price:         price,
		ProviderToken: cfg.Payments.ProviderToken,
	}).register(r)

	pollerOptions := bot.PollerOptions{
		Fetcher:                telegram,
		Dispatcher:             r,
		Logger:                 logger,
		Interval:               cfg.Polling.Interval,
		BackoffInitialInterval: cfg.Polling.BackoffInitialInterval,
		BackoffMaxInterval:     cfg.Polling.BackoffMaxInterval,
	}

	if cfg.PostgreSQL.Enabled() {
		db, err := openDatabase(ctx, cfg.PostgreSQL, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		botID, err := telegram.BotID()
		if err != nil {
			return err
		}

		pollerOptions.OffsetStore = store.NewOffset(db, botID)
		logger.Info().Int64("botID", botID).Msg("polling offset is stored in postgresql")
	}

	return bot.NewPoller(pollerOptions).Run(ctx)
}

func openDatabase(ctx context.Context, cfg config.PostgreSQL, logger *logger.Logger) (*database.PostgreSQL, error) {
	db, err := database.NewPostgreSQL(database.PostgreSQLOptions{
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		Host:     cfg.Host,
		Port:     cfg.Port,
		SSLMode:  cfg.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgresql: %w", err)
	}

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgresql: %w", err)
	}

	_, err = migrations.MigrateDB(logger, db.DB, cfg.Database, migrations.Migrations)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}
