// Package resolver собирает приложение воркера отложенных изменений подписок.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/lib/rabbitmq"
	resolverservice "github.com/CloudEngineHub/onlook/internal/services/resolver"
	"github.com/CloudEngineHub/onlook/internal/storage/repository"
)

// App представляет приложение воркера.
type App struct {
	resolverService *resolverservice.ResolverService
	conn            *amqp.Connection
	ch              *amqp.Channel
	db              *repository.Storage
	logger          *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения воркера.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetBillingQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := rabbitmq.NewEventPublisher(ch)
	resolverService := resolverservice.New(db, publisher, cfg.Resolver, logger)

	return &App{
		resolverService: resolverService,
		conn:            conn,
		ch:              ch,
		db:              db,
		logger:          logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает воркер до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.resolverService.Run(ctx)

	<-ctx.Done()

	a.logger.Info("shutting down schedule resolver")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	_ = a.db.DB.Close()

	return nil
}
