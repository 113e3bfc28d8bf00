package service

import (
	"context"
	"math"
	"time"

	"crm_portal_backend/internal/analytics/repository"
	"crm_portal_backend/internal/analytics/transport"
	"crm_portal_backend/internal/leads/domain"
)

// StageCounter is the slice of the analytics repository the funnel needs.
type StageCounter interface {
	StageCounts(ctx context.Context) (map[string]int, error)
}

// OverviewReader provides the aggregate metrics.
type OverviewReader interface {
	GetOverview(ctx context.Context, createdSince time.Time) (repository.Overview, error)
	OrigemCounts(ctx context.Context) (map[string]int, error)
}

type Repository interface {
	StageCounter
	OverviewReader
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Funnel returns lead counts for every pipeline stage in funnel order. Stages
// with no leads appear with a zero count so the funnel shape stays stable.
// Conversion is the share of leads at or past each stage; the lost stage is
// excluded from the progression and reported with zero conversion.
func (s *Service) Funnel(ctx context.Context) (transport.FunnelResponse, error) {
	counts, err := s.repo.StageCounts(ctx)
	if err != nil {
		return transport.FunnelResponse{}, err
	}

	total := 0
	for _, estagio := range domain.StageOrder {
		total += counts[estagio]
	}

	progressTotal := total - counts[domain.StagePerdido]

	stages := make([]transport.FunnelStage, 0, len(domain.StageOrder))
	remaining := progressTotal
	for _, estagio := range domain.StageOrder {
		stage := transport.FunnelStage{Estagio: estagio, Count: counts[estagio]}
		if estagio != domain.StagePerdido && progressTotal > 0 {
			stage.Conversion = round1(100 * float64(remaining) / float64(progressTotal))
			remaining -= counts[estagio]
		}
		stages = append(stages, stage)
	}

	return transport.FunnelResponse{Stages: stages, Total: total}, nil
}

// Overview returns the aggregate funnel metrics.
func (s *Service) Overview(ctx context.Context) (transport.OverviewResponse, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)
	overview, err := s.repo.GetOverview(ctx, weekAgo)
	if err != nil {
		return transport.OverviewResponse{}, err
	}

	porOrigem, err := s.repo.OrigemCounts(ctx)
	if err != nil {
		return transport.OverviewResponse{}, err
	}

	return transport.OverviewResponse{
		TotalActive:      overview.TotalActive,
		TotalArchived:    overview.TotalArchived,
		MergesLast30Days: overview.MergesLast30Days,
		PendingReviews:   overview.PendingReviews,
		AverageScore:     round1(overview.AverageScore),
		NewLast7Days:     overview.CreatedSince,
		PorOrigem:        porOrigem,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
