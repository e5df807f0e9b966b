package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/campus-gateway/internal/apiclient"
	"github.com/ignatzorin/campus-gateway/internal/cache"
	"github.com/ignatzorin/campus-gateway/internal/config"
	"github.com/ignatzorin/campus-gateway/internal/db"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	httpHandlers "github.com/ignatzorin/campus-gateway/internal/http/handlers"
	httpRouter "github.com/ignatzorin/campus-gateway/internal/http/router"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/notify"
	"github.com/ignatzorin/campus-gateway/internal/poller"
	"github.com/ignatzorin/campus-gateway/internal/repository"
	"github.com/ignatzorin/campus-gateway/internal/session"
	authuc "github.com/ignatzorin/campus-gateway/internal/usecase/auth"
	"github.com/ignatzorin/campus-gateway/internal/usecase/catalog"
	"github.com/ignatzorin/campus-gateway/internal/usecase/order"
	"github.com/ignatzorin/campus-gateway/internal/usecase/requirement"
	"github.com/ignatzorin/campus-gateway/internal/ws"
)

const (
	sessionSweepInterval = time.Minute
	cacheSweepInterval   = 5 * time.Minute
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Component("main").WithError(err).Fatal("main: ошибка загрузки конфигурации")
	}

	logger.Init(cfg.Env)
	logger.SetLevel(cfg.LogLevel)
	log := logger.Component("main")

	// Фоновые задачи останавливаются вместе: по сигналу или при ошибке любой из них.
	g, gctx := errgroup.WithContext(ctx)

	// База необязательна: без DATABASE_URL уведомления и водяные знаки живут в памяти.
	var (
		dbConn     *sqlx.DB
		toastStore notify.ToastStore
		marks      poller.WatermarkStore
	)
	if cfg.UseDatabase() {
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("main: ошибка подключения к базе")
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.WithError(err).Fatal("main: ошибка миграций")
		}
		toastStore = repository.NewToastRepository(dbConn)
		marks = repository.NewWatermarkRepository(dbConn)
	} else {
		log.Warn("main: DATABASE_URL не задан, используется хранилище в памяти")
		toastStore = repository.NewMemoryToastRepository()
		marks = repository.NewMemoryWatermarkRepository()
	}

	// Бэкенд маркетплейса.
	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, nil)
	orders := api.Orders()
	services := api.Services()
	requirements := api.Requirements()

	sessions := session.NewManager(gctx, cfg.SessionTTL, cfg.UpstreamJWTSecret)
	defer sessions.Close()

	catalogue := cache.New[[]*entity.Service](cfg.CatalogueCacheTTL)

	hub := ws.NewHub(gctx)
	toasts := notify.NewService(toastStore, hub)
	statusPoller := poller.New(orders, marks, cfg.PollInterval).WithNotifier(toasts)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Auth: httpHandlers.NewAuthHandler(toasts, authuc.NewUseCase(api.Auth(), sessions)),
		Catalog: httpHandlers.NewCatalogHandler(toasts,
			catalog.NewBrowseUseCase(services).WithCache(catalogue),
			catalog.NewListMyServicesUseCase(services),
			catalog.NewArchiveServiceUseCase(services).WithCache(catalogue),
		),
		Orders: httpHandlers.NewOrderHandler(toasts, httpHandlers.OrderUseCases{
			ServiceOrder: order.NewGetServiceOrderUseCase(orders, services),
			Get:          order.NewGetOrderUseCase(orders),
			List:         order.NewListOrdersUseCase(orders),
			Create:       order.NewCreateOrderUseCase(orders, services),
			Transition:   order.NewTransitionOrderUseCase(orders, services),
			Archive:      order.NewArchiveOrderUseCase(orders, services),
			Review:       order.NewSubmitReviewUseCase(orders, api.Reviews()),
		}),
		Requirements: httpHandlers.NewRequirementHandler(toasts, httpHandlers.RequirementUseCases{
			Board:        requirement.NewBoardUseCase(requirements),
			Mine:         requirement.NewListMyRequirementsUseCase(requirements),
			Publish:      requirement.NewPublishRequirementUseCase(requirements),
			Apply:        requirement.NewApplyUseCase(requirements),
			Applications: requirement.NewListApplicationsUseCase(requirements),
			Select:       requirement.NewSelectCandidateUseCase(requirements),
			Archive:      requirement.NewArchiveRequirementUseCase(requirements),
		}),
		Views:         httpHandlers.NewViewHandler(),
		Notifications: httpHandlers.NewNotificationHandler(toasts),
		WS:            httpHandlers.NewWSHandler(hub, statusPoller, cfg.AllowedOrigins),
		Health:        httpHandlers.NewHealthHandler(dbConn, sessions),
	}

	engine := httpRouter.SetupRouter(cfg, sessions, handlers)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		hub.Run()
		return nil
	})
	g.Go(func() error {
		sessions.Run(gctx, sessionSweepInterval)
		return nil
	})
	g.Go(func() error {
		catalogue.Run(gctx, cacheSweepInterval)
		return nil
	})
	g.Go(func() error {
		log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Завершаем сервер при получении сигнала или ошибке другой задачи.
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("main: шлюз завершился с ошибкой")
	}
	log.Info("main: шлюз остановлен")
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Component("main").WithError(err).Warn("main: ошибка закрытия базы")
	}
}
