package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ewaste_pickup_backend/internal/adapters/storage"
	"ewaste_pickup_backend/internal/auth"
	authadapter "ewaste_pickup_backend/internal/auth/adapter"
	"ewaste_pickup_backend/internal/classification"
	"ewaste_pickup_backend/internal/email"
	"ewaste_pickup_backend/internal/events"
	apphttp "ewaste_pickup_backend/internal/http"
	"ewaste_pickup_backend/internal/http/router"
	"ewaste_pickup_backend/internal/notification"
	"ewaste_pickup_backend/internal/pickups"
	"ewaste_pickup_backend/internal/points"
	pointsadapter "ewaste_pickup_backend/internal/points/adapter"
	"ewaste_pickup_backend/internal/scheduler"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/db"
	"ewaste_pickup_backend/platform/logger"
	"ewaste_pickup_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := db.NewTxManager(pool)
	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	emailQueue, closeQueue := initEmailQueue(ctx, cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	photoArchive := initPhotoArchive(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, val, log)
	userLookup := authadapter.NewUserLookup(authModule.Repository())

	pointsModule := points.NewModule(pool, txManager, cfg, eventBus, val, log)

	// Pickups reaches points and auth only through its own ports.
	pickupsModule := pickups.NewModule(
		pool,
		txManager,
		cfg,
		pointsadapter.NewPickupAwarder(pointsModule.Service()),
		userLookup,
		eventBus,
		val,
		log,
	)

	classificationModule := classification.NewModule(ctx, cfg, photoArchive, log)

	notificationModule := notification.New(userLookup, emailQueue, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			authModule,
			pickupsModule,
			pointsModule,
			classificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initEmailQueue returns the asynq client when Redis is configured and an
// inline deliverer otherwise.
func initEmailQueue(ctx context.Context, cfg *config.Config, log *logger.Logger) (scheduler.EmailEnqueuer, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("REDIS_URL not configured; notification e-mails are sent inline")
		return notification.NewDeliverer(newSender(cfg, log)), nil
	}

	if err := scheduler.Ping(ctx, cfg); err != nil {
		log.Warn("redis not reachable yet; tasks will be queued once it is", "error", err)
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		panic("failed to initialize task queue client: " + err.Error())
	}
	return client, func() { _ = client.Close() }
}

func newSender(cfg config.EmailConfig, log *logger.Logger) email.Sender {
	if !cfg.IsEmailEnabled() {
		log.Warn("SMTP_HOST not configured; notification e-mails are dropped")
		return email.NoopSender{}
	}
	return email.NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
}

// initPhotoArchive returns nil when object storage is not configured.
func initPhotoArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.PhotoArchive {
	if !cfg.IsMinIOEnabled() {
		log.Info("MINIO_ENDPOINT not configured; classification photos are not archived")
		return nil
	}

	store, err := storage.NewMinIOPhotoStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure classification photo bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucket(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketClassificationPhotos())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "bucket", cfg.GetMinioBucketClassificationPhotos())
	return store
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
