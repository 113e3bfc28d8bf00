package scheduler

import (
	"context"
	"fmt"
	"runtime"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/dedup"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	repo      *repository.Repository
	bus       events.Bus
	log       *logger.Logger
	batchSize int
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		repo:      repository.New(pool),
		bus:       bus,
		log:       log,
		batchSize: cfg.GetDedupScanBatchSize(),
	}

	mux.HandleFunc(TaskDedupScan, w.handleDedupScan)

	return w, nil
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
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleDedupScan classifies every active lead against the ones after it and
// records each best match as a pending duplicate candidate. Classification is
// pure, so lead slots are scanned in parallel.
func (w *Worker) handleDedupScan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDedupScanPayload(task)
	if err != nil {
		return err
	}

	leads, err := w.repo.ListCandidates(ctx, uuid.Nil)
	if err != nil {
		return err
	}

	limit := payload.BatchSize
	if limit <= 0 {
		limit = w.batchSize
	}
	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}

	type hit struct {
		leadID uuid.UUID
		match  dedup.DuplicateMatch
	}
	hits := make(chan hit, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range leads {
		lead, rest := leads[i], leads[i+1:]
		if len(rest) == 0 {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			match := dedup.Classify(dedup.Candidate{
				Nome:     lead.Nome,
				Telefone: lead.Telefone,
				Email:    lead.Email,
			}, rest)
			if match.Type != dedup.MatchNone {
				hits <- hit{leadID: lead.ID, match: match}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	close(hits)

	found := 0
	for h := range hits {
		if err := w.repo.RecordDuplicateCandidate(ctx, h.leadID, h.match.LeadID, string(h.match.Type), h.match.Score); err != nil {
			return err
		}
		w.bus.Publish(ctx, events.DuplicateDetected{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      h.leadID,
			DuplicateID: h.match.LeadID,
			MatchType:   string(h.match.Type),
			Score:       h.match.Score,
		})
		w.log.DuplicateDetected(h.leadID.String(), string(h.match.Type), h.match.Score)
		found++
	}

	w.log.Info("duplicate scan complete", "scanned", len(leads), "candidates", found)
	return nil
}

// ScanHit pairs a scanned lead with its best duplicate match.
type ScanHit struct {
	LeadID uuid.UUID
	Match  dedup.DuplicateMatch
}

// ScanLeads is the in-process variant of the scan used by the one-off CLI.
// It walks the given leads without touching Redis.
func ScanLeads(leads []domain.Lead) []ScanHit {
	hits := make([]ScanHit, 0)
	for i, lead := range leads {
		rest := leads[i+1:]
		if len(rest) == 0 {
			break
		}
		match := dedup.Classify(dedup.Candidate{
			Nome:     lead.Nome,
			Telefone: lead.Telefone,
			Email:    lead.Email,
		}, rest)
		if match.Type != dedup.MatchNone {
			hits = append(hits, ScanHit{LeadID: lead.ID, Match: match})
		}
	}
	return hits
}
