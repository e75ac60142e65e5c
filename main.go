package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/vladimiradmaev/diabetes-care/internal/bot"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/handlers"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/config"
	"github.com/vladimiradmaev/diabetes-care/internal/database"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
	"github.com/vladimiradmaev/diabetes-care/internal/metrics"
	"github.com/vladimiradmaev/diabetes-care/internal/notify"
	"github.com/vladimiradmaev/diabetes-care/internal/reminders"
	"github.com/vladimiradmaev/diabetes-care/internal/repository"
	"github.com/vladimiradmaev/diabetes-care/internal/services"
	"github.com/vladimiradmaev/diabetes-care/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second

	// expired markers on the disk backend are removed at startup and then on this schedule
	pruneSpec = "@every 6h"
)

func pruneExpired(ctx context.Context, disk *storage.DiskStore) {
	removed, err := disk.Prune(ctx)
	if err != nil {
		logger.Warn("Failed to prune expired keys", "error", err)
		return
	}
	logger.Info("Pruned expired keys", "removed", removed)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	logCloser, err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logCloser.Close()
	logger.Info("Starting DiabetesCare bot")

	loc, err := cfg.Reminders.Location()
	if err != nil {
		logger.Fatal("Invalid reminder timezone", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connection established and migrations completed")

	// Redis backs markers, the entry feed and conversation state when selected
	var redisClient *redis.Client
	if cfg.Reminders.Backend == config.BackendRedis {
		redisClient, err = storage.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		logger.Info("Redis connection established", "addr", cfg.Redis.Addr())
	}

	var (
		kv     domain.KeyValueStore
		feed   domain.EntryFeed
		states state.StateManager
	)
	switch cfg.Reminders.Backend {
	case config.BackendRedis:
		kv = storage.NewRedisStore(redisClient)
		feed = repository.NewRedisFeed(redisClient)
		states = state.NewRedisManager(redisClient)
	case config.BackendDisk:
		disk := storage.NewDiskStore(cfg.Reminders.DiskPath)
		pruneExpired(ctx, disk)
		pruner := cron.New()
		if _, err := pruner.AddFunc(pruneSpec, func() { pruneExpired(ctx, disk) }); err != nil {
			logger.Fatal("Failed to schedule disk pruning", "error", err)
		}
		pruner.Start()
		defer pruner.Stop()
		kv = disk
		feed = repository.NewMemoryFeed()
		states = state.NewManager()
	default:
		kv = storage.NewMemoryStore()
		feed = repository.NewMemoryFeed()
		states = state.NewManager()
	}
	logger.Info("Reminder store selected", "backend", cfg.Reminders.Backend)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	api, err := bot.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewEntryRepository(db)

	var notifier notify.Multi
	if cfg.Notifications.Telegram {
		notifier = append(notifier, notify.NewTelegramNotifier(api, userRepo))
	}
	if cfg.Notifications.Desktop {
		notifier = append(notifier, notify.NewDesktopNotifier(""))
	}

	// Initialize services
	clock := reminders.NewSystemClock(loc)
	ruleStore := reminders.NewRuleStore(kv)
	scheduler := reminders.NewScheduler(ruleStore, kv, notifier, clock, m)

	userService := services.NewUserService(userRepo)
	entryService := services.NewEntryService(entryRepo, feed, clock, m)
	metricsService := services.NewMetricsService(entryRepo, clock, m)
	reminderService := services.NewReminderService(ruleStore, userRepo, scheduler)
	preferenceService := services.NewPreferenceService(kv)
	exportService := services.NewExportService(entryRepo, loc)
	riskWatcher := services.NewRiskWatcher(feed, entryRepo, kv, notifier, userRepo, m)
	logger.Info("Services initialized successfully")

	restored, err := reminderService.Restore(ctx)
	if err != nil {
		logger.Fatal("Failed to restore reminder subscriptions", "error", err)
	}
	logger.Info("Reminder subscriptions restored", "users", restored)

	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start reminder scheduler", "error", err)
	}
	defer scheduler.Stop()

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Handler(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	telegramBot := bot.NewBot(api, handlers.Dependencies{
		UserService:       userService,
		EntryService:      entryService,
		MetricsService:    metricsService,
		ReminderService:   reminderService,
		PreferenceService: preferenceService,
		ExportService:     exportService,
		ErrorHandler:      apperrors.NewHandler(logger.WithComponent("bot")),
	}, states)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := riskWatcher.Run(ctx); err != nil {
			logger.Error("Risk watcher failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := telegramBot.Start(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
			logger.Error("Bot stopped with error", "error", err)
			stop()
		}
	}()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down metrics server", "error", err)
	}

	wg.Wait()
	logger.Info("Shutdown complete")
}
