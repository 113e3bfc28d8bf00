// Command dedup-scan runs a one-off duplicate scan over the active lead base
// and records the hits as pending candidates. Useful after bulk imports,
// without going through Redis.
package main

import (
	"context"
	"flag"
	"fmt"

	leadrepo "crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/scheduler"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/db"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print the hits without recording candidates")
	limit := flag.Int("limit", 0, "scan at most this many leads (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting duplicate scan", "dryRun", *dryRun)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := leadrepo.New(pool)

	leads, err := repo.ListCandidates(ctx, uuid.Nil)
	if err != nil {
		log.Error("failed to list leads", "error", err)
		panic("failed to list leads: " + err.Error())
	}
	if *limit > 0 && len(leads) > *limit {
		leads = leads[:*limit]
	}

	hits := scheduler.ScanLeads(leads)
	log.Info("scan complete", "scanned", len(leads), "hits", len(hits))

	for _, hit := range hits {
		fmt.Printf("%s  ~  %s  [%s score=%d]\n",
			hit.LeadID, hit.Match.LeadID, hit.Match.Type, hit.Match.Score)

		if *dryRun {
			continue
		}
		if err := repo.RecordDuplicateCandidate(ctx, hit.LeadID, hit.Match.LeadID,
			string(hit.Match.Type), hit.Match.Score); err != nil {
			log.Error("failed to record candidate", "error", err, "leadId", hit.LeadID)
		}
	}
}
