package scheduler

import (
	"context"
	"fmt"

	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic enqueues the recurring duplicate scan on the configured cron spec.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	sched := asynq.NewScheduler(opt, nil)

	task, err := NewDedupScanTask(DedupScanPayload{BatchSize: cfg.GetDedupScanBatchSize()})
	if err != nil {
		return nil, err
	}

	entryID, err := sched.Register(cfg.GetDedupScanCron(), task, asynq.Queue(queue))
	if err != nil {
		return nil, err
	}
	log.Info("duplicate scan scheduled", "cron", cfg.GetDedupScanCron(), "entryId", entryID)

	return &Periodic{scheduler: sched, log: log}, nil
}

func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		p.scheduler.Shutdown()
	}()

	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic scheduler stopped", "error", err)
	}
}
