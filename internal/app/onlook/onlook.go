// Package onlook собирает основное приложение: хранилище, кеш, брокер
// сообщений, платёжного провайдера, языковую модель и HTTP-сервер.
package onlook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/CloudEngineHub/onlook/internal/billingprovider"
	"github.com/CloudEngineHub/onlook/internal/cache"
	"github.com/CloudEngineHub/onlook/internal/config"
	"github.com/CloudEngineHub/onlook/internal/lib/jwt"
	"github.com/CloudEngineHub/onlook/internal/lib/rabbitmq"
	"github.com/CloudEngineHub/onlook/internal/llm"
	"github.com/CloudEngineHub/onlook/internal/migrations"
	authservice "github.com/CloudEngineHub/onlook/internal/services/auth"
	billingservice "github.com/CloudEngineHub/onlook/internal/services/billing"
	projectservice "github.com/CloudEngineHub/onlook/internal/services/project"
	usageservice "github.com/CloudEngineHub/onlook/internal/services/usage"
	"github.com/CloudEngineHub/onlook/internal/storage/repository"
)

// App представляет основное приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает новый экземпляр приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAnalyticsQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewEventPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := billingprovider.NewClient(cfg.BillingProvider.APIURL, cfg.AccountID, cfg.SecretKey)
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)

	authService := authservice.NewAuthService(db, jwtMaker)
	billingService := billingservice.New(db, providerClient, cacheRedis, cfg.BillingProvider, logger)
	projectService := projectservice.New(db, llmClient, publisher, cacheRedis, logger)
	usageService := usageservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, billingService, projectService, usageService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		_ = a.db.DB.Close()
		return err
	}
}
