package scheduler

import (
	"context"
	"fmt"

	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// EmailDeliverer sends the e-mail described by a task payload.
type EmailDeliverer interface {
	Deliver(ctx context.Context, payload NotificationEmailPayload) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	delivery EmailDeliverer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, delivery EmailDeliverer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:   server,
		mux:      asynq.NewServeMux(),
		delivery: delivery,
		log:      log,
	}
	w.mux.HandleFunc(TaskNotificationEmail, w.handleNotificationEmail)

	return w, nil
}

func (w *Worker) handleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationEmailPayload(task)
	if err != nil {
		// A payload that cannot be decoded will never succeed.
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.ToEmail == "" {
		return nil
	}

	if err := w.delivery.Deliver(ctx, payload); err != nil {
		w.log.Warn("notification e-mail failed", "kind", payload.Kind, "error", err)
		return err
	}
	w.log.Info("notification e-mail sent", "kind", payload.Kind)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("notification worker stopped", "error", err)
	}
}
