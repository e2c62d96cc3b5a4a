package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maintenance-service/internal/api/http"
	"github.com/spec-kit/maintenance-service/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-service/internal/api/live"
	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/observability"
	"github.com/spec-kit/maintenance-service/internal/persistence"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/seed"
	"github.com/spec-kit/maintenance-service/internal/service"
	"github.com/spec-kit/maintenance-service/internal/ticketid"
	"github.com/spec-kit/maintenance-service/internal/worker"
)

type repositories struct {
	tickets       repository.TicketRepository
	staff         repository.StaffRepository
	settings      repository.SettingsRepository
	notifications repository.NotificationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	location, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	repos := buildRepositories(pg)

	seedFile := seed.Defaults()
	if cfg.Seed.File != "" {
		seedFile, err = seed.Load(cfg.Seed.File)
		if err != nil {
			logger.Fatal("failed to load seed file", zap.String("path", cfg.Seed.File), zap.Error(err))
		}
	}
	if err := seedFile.Apply(ctx, repos.staff, repos.settings, time.Now().In(location), logger); err != nil {
		logger.Fatal("failed to apply seed", zap.Error(err))
	}

	var (
		hub       events.Hub
		sequencer ticketid.Sequencer
	)
	if rdb.Enabled() {
		redisHub := events.NewRedisHub(rdb.Client, events.DefaultChannel, logger)
		go func() {
			if err := redisHub.Run(ctx); err != nil {
				logger.Error("redis live relay stopped", zap.Error(err))
			}
		}()
		hub = redisHub
		sequencer = ticketid.NewRedisSequencer(rdb.Client)
	} else {
		hub = events.NewMemoryHub(logger)
		sequencer = ticketid.NewMemorySequencer()
	}

	clock := service.Clock(time.Now)
	router := service.NewNotificationService(service.NotificationDependencies{
		StaffRepo:        repos.staff,
		SettingsRepo:     repos.settings,
		NotificationRepo: repos.notifications,
		Hub:              hub,
		Logger:           logger,
		Metrics:          metrics,
		Clock:            clock,
		Location:         location,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.tickets,
		IDGenerator: ticketid.NewGenerator(sequencer, repos.tickets),
		Dispatcher:  router,
		Logger:      logger,
		Metrics:     metrics,
		Clock:       clock,
		Location:    location,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TicketRepo: repos.tickets,
		Metrics:    metrics,
		Clock:      clock,
		Location:   location,
	})
	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:    repos.staff,
		SettingsRepo: repos.settings,
		MasterData:   seedFile.MasterData,
		Logger:       logger,
		Clock:        clock,
		Location:     location,
	})

	monitor := worker.NewSLAMonitor(reportService, logger,
		worker.WithLocation(location),
		worker.WithHub(hub),
		worker.WithMetrics(metrics),
		worker.WithClock(clock),
	)
	if err := monitor.Start(ctx, cfg.SLA.SweepSchedule); err != nil {
		logger.Fatal("failed to start sla monitor", zap.Error(err))
	}
	defer monitor.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	liveServer := live.NewServer(hub, authMiddleware, logger, cfg.Live.BufferSize)
	go func() {
		if err := liveServer.ListenAndServe(ctx, cfg.Live.Addr); err != nil {
			logger.Error("live server stopped", zap.Error(err))
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    rdb,
		}),
		Tickets:        handlers.NewTicketsHandler(ticketService, reportService),
		Reports:        handlers.NewReportsHandler(reportService, ticketService),
		Notifications:  handlers.NewNotificationsHandler(router),
		Staff:          handlers.NewStaffHandler(staffService),
		Settings:       handlers.NewSettingsHandler(staffService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			tickets:       repository.NewTicketRepository(pool),
			staff:         repository.NewStaffRepository(pool),
			settings:      repository.NewSettingsRepository(pool),
			notifications: repository.NewNotificationRepository(pool),
		}
	}
	return repositories{
		tickets:       repository.NewMemoryTicketRepository(),
		staff:         repository.NewMemoryStaffRepository(),
		settings:      repository.NewMemorySettingsRepository(nil),
		notifications: repository.NewMemoryNotificationRepository(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
