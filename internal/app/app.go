package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"gw-transaction-view/internal/api/handlers"
	"gw-transaction-view/internal/api/middlew"
	"gw-transaction-view/internal/config"
	"gw-transaction-view/internal/corridor"
	"gw-transaction-view/internal/db"
	"gw-transaction-view/internal/kafka"
	"gw-transaction-view/internal/server"
	"gw-transaction-view/internal/service"
	"gw-transaction-view/internal/storage/postgres"
	"gw-transaction-view/pkg/logger"
)

type App struct {
	log            *slog.Logger
	server         *server.Server
	pool           *pgxpool.Pool
	logFile        *os.File
	cfg            *config.Config
	authService    service.Auth
	historyService *service.HistoryService
	kafkaProducer  kafka.Producer
}

func NewApp() (*App, error) {
	loggerWithFile := logger.NewLoggerWithFile("transaction-view.log")
	log := loggerWithFile.Logger
	log.Info("инициализация приложения")

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}
	log.Info("конфигурация загружена", slog.String("port", cfg.HTTPPort))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), "migrations"); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	log.Info("миграции успешно применены")

	poolCfg := db.PoolConfig{
		MaxConns:          200,
		MinConns:          10,
		HealthCheckPeriod: 30 * time.Second,
		PoolTimeout:       5 * time.Second,
		RetryAttempts:     5,
		RetryDelay:        1 * time.Second,
	}

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), poolCfg, log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)
	srv.RegisterSwagger()

	return &App{
		log:           log,
		server:        srv,
		pool:          pool,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		kafkaProducer: kafkaProducer,
	}, nil
}

func (a *App) BuildAuthLayer() {
	txManager := service.NewPgxTxManager(a.pool)
	userRepo := postgres.NewUserRepository(a.pool)
	accountRepo := postgres.NewAccountRepository(a.pool)

	a.authService = service.NewAuthService(
		userRepo,
		accountRepo,
		txManager,
		a.cfg.JWT.Secret,
		a.cfg.JWT.Expiration,
		a.log,
	)

	authHandler := handlers.NewAuthHandler(a.authService)

	a.server.Router.Post("/api/v1/register", authHandler.Register)
	a.server.Router.Post("/api/v1/login", authHandler.Login)

	a.log.Info("слой 'auth' собран и маршруты зарегистрированы")
}

func (a *App) BuildHistoryLayer() error {
	if a.authService == nil {
		err := errors.New("authService not initialized, call BuildAuthLayer first")
		a.log.Error(err.Error())
		return err
	}
	if a.kafkaProducer == nil {
		err := errors.New("kafkaProducer not initialized")
		a.log.Error(err.Error())
		return err
	}

	recordRepo := postgres.NewRecordRepository(a.pool)
	accountRepo := postgres.NewAccountRepository(a.pool)
	userRepo := postgres.NewUserRepository(a.pool)
	normalizer := corridor.NewNormalizer(a.cfg.Fees)

	a.historyService = service.NewHistoryService(
		recordRepo,
		accountRepo,
		userRepo,
		normalizer,
		a.kafkaProducer,
		a.cfg.CacheExpiration,
		a.cfg.NormalizeWorkers,
		a.log,
	)

	historyHandler := handlers.NewHistoryHandler(a.historyService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireAuth(a.authService))

		r.Get("/api/v1/transactions", historyHandler.GetTransactions)
		r.Post("/api/v1/transactions", historyHandler.IngestTransaction)
		r.Get("/api/v1/transactions/{transactionID}", historyHandler.GetTransactionByID)
		r.Get("/api/v1/accounts", historyHandler.GetAccounts)
	})

	a.log.Info("слой 'history' собран и маршруты зарегистрированы")
	return nil
}

func (a *App) BuildInfoLayer() error {
	if a.authService == nil {
		err := errors.New("authService not initialized, call BuildAuthLayer first")
		a.log.Error(err.Error())
		return err
	}

	infoService := service.NewInfoService(a.cfg.Fees, a.log)
	infoHandler := handlers.NewInfoHandler(infoService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireAuth(a.authService))
		r.Get("/api/v1/transactions/info", infoHandler.GetCorridorInfo)
	})

	a.log.Info("слой 'info' собран и маршруты зарегистрированы")
	return nil
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.historyService != nil {
		a.log.Info("остановка history service")
		if err := a.historyService.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке history service", slog.String("error", err.Error()))
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено")
	return nil
}
