package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ewaste_pickup_backend/internal/email"
	"ewaste_pickup_backend/internal/notification"
	"ewaste_pickup_backend/internal/scheduler"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting notification worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Ping(ctx, cfg); err != nil {
		log.Error("redis not reachable", "error", err)
		panic("redis not reachable: " + err.Error())
	}

	var sender email.Sender = email.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
	} else {
		log.Warn("SMTP_HOST not configured; notification e-mails are dropped")
	}

	worker, err := scheduler.NewWorker(cfg, notification.NewDeliverer(sender), log)
	if err != nil {
		log.Error("failed to initialize notification worker", "error", err)
		panic("failed to initialize notification worker: " + err.Error())
	}

	worker.Run(ctx)
}
