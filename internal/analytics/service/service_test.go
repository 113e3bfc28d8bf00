package service

import (
	"context"
	"testing"
	"time"

	"crm_portal_backend/internal/analytics/repository"
	"crm_portal_backend/internal/leads/domain"
)

type fakeRepo struct {
	stages   map[string]int
	overview repository.Overview
	origens  map[string]int
}

func (r *fakeRepo) StageCounts(_ context.Context) (map[string]int, error) {
	return r.stages, nil
}

func (r *fakeRepo) GetOverview(_ context.Context, _ time.Time) (repository.Overview, error) {
	return r.overview, nil
}

func (r *fakeRepo) OrigemCounts(_ context.Context) (map[string]int, error) {
	return r.origens, nil
}

func TestFunnelIncludesEveryStage(t *testing.T) {
	svc := New(&fakeRepo{stages: map[string]int{domain.StageNovo: 3}})

	resp, err := svc.Funnel(context.Background())
	if err != nil {
		t.Fatalf("Funnel: %v", err)
	}

	if len(resp.Stages) != len(domain.StageOrder) {
		t.Fatalf("got %d stages, want %d", len(resp.Stages), len(domain.StageOrder))
	}
	for i, stage := range resp.Stages {
		if stage.Estagio != domain.StageOrder[i] {
			t.Fatalf("stage[%d] = %q, want %q", i, stage.Estagio, domain.StageOrder[i])
		}
	}
	if resp.Stages[0].Count != 3 {
		t.Fatalf("Novo count = %d, want 3", resp.Stages[0].Count)
	}
	if resp.Stages[1].Count != 0 {
		t.Fatalf("empty stage count = %d, want 0", resp.Stages[1].Count)
	}
	if resp.Total != 3 {
		t.Fatalf("Total = %d", resp.Total)
	}
}

func TestFunnelConversionIsCumulative(t *testing.T) {
	svc := New(&fakeRepo{stages: map[string]int{
		domain.StageNovo:            5,
		domain.StagePrimeiroContato: 3,
		domain.StageFechado:         2,
	}})

	resp, err := svc.Funnel(context.Background())
	if err != nil {
		t.Fatalf("Funnel: %v", err)
	}

	// 10 leads in progression: all of them are at or past Novo.
	if got := resp.Stages[0].Conversion; got != 100 {
		t.Fatalf("Novo conversion = %v, want 100", got)
	}
	// 5 of 10 made it past Novo.
	if got := resp.Stages[1].Conversion; got != 50 {
		t.Fatalf("Primeiro Contato conversion = %v, want 50", got)
	}
	// Only the 2 closed deals reached the end.
	last := resp.Stages[len(resp.Stages)-2]
	if last.Estagio != domain.StageFechado {
		t.Fatalf("unexpected stage order: %q", last.Estagio)
	}
	if last.Conversion != 20 {
		t.Fatalf("Fechado conversion = %v, want 20", last.Conversion)
	}
}

func TestFunnelExcludesLostFromProgression(t *testing.T) {
	svc := New(&fakeRepo{stages: map[string]int{
		domain.StageNovo:    4,
		domain.StagePerdido: 6,
	}})

	resp, err := svc.Funnel(context.Background())
	if err != nil {
		t.Fatalf("Funnel: %v", err)
	}

	if resp.Total != 10 {
		t.Fatalf("Total = %d, want 10", resp.Total)
	}
	if got := resp.Stages[0].Conversion; got != 100 {
		t.Fatalf("Novo conversion = %v, lost leads must not dilute it", got)
	}
	lost := resp.Stages[len(resp.Stages)-1]
	if lost.Estagio != domain.StagePerdido || lost.Conversion != 0 {
		t.Fatalf("Perdido stage = %+v, want zero conversion", lost)
	}
}

func TestFunnelEmptyBase(t *testing.T) {
	svc := New(&fakeRepo{stages: map[string]int{}})

	resp, err := svc.Funnel(context.Background())
	if err != nil {
		t.Fatalf("Funnel: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("Total = %d", resp.Total)
	}
	for _, stage := range resp.Stages {
		if stage.Count != 0 || stage.Conversion != 0 {
			t.Fatalf("stage %+v not zeroed", stage)
		}
	}
}

func TestOverviewRoundsAverageScore(t *testing.T) {
	svc := New(&fakeRepo{
		overview: repository.Overview{
			TotalActive:  12,
			AverageScore: 66.666,
		},
		origens: map[string]int{"webhook:site": 7},
	})

	resp, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if resp.AverageScore != 66.7 {
		t.Fatalf("AverageScore = %v, want 66.7", resp.AverageScore)
	}
	if resp.PorOrigem["webhook:site"] != 7 {
		t.Fatalf("PorOrigem = %v", resp.PorOrigem)
	}
}
