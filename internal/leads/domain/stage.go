// Package domain holds the lead model and pipeline vocabulary shared by the
// leads bounded context.
package domain

const (
	StageNovo            = "Novo"
	StagePrimeiroContato = "Primeiro Contato"
	StageSegundoContato  = "Segundo Contato"
	StageReuniaoAgendada = "Reunião Agendada"
	StagePropostaEnviada = "Proposta Enviada"
	StageNegociacao      = "Negociação"
	StageFechado         = "Fechado"
	StagePerdido         = "Perdido"
)

// StageOrder is the fixed pipeline ordering. Position defines the total order
// used by highest-stage merge resolution and the analytics funnel.
var StageOrder = []string{
	StageNovo,
	StagePrimeiroContato,
	StageSegundoContato,
	StageReuniaoAgendada,
	StagePropostaEnviada,
	StageNegociacao,
	StageFechado,
	StagePerdido,
}

var stageRanks = buildStageRanks()

func buildStageRanks() map[string]int {
	ranks := make(map[string]int, len(StageOrder))
	for i, stage := range StageOrder {
		ranks[stage] = i
	}
	return ranks
}

// StageRank returns the position of a stage in StageOrder, or -1 for an
// unknown stage. Unknown stages always lose highest-stage comparisons.
func StageRank(stage string) int {
	rank, ok := stageRanks[stage]
	if !ok {
		return -1
	}
	return rank
}

// IsKnownStage reports whether the stage belongs to the pipeline vocabulary.
func IsKnownStage(stage string) bool {
	_, ok := stageRanks[stage]
	return ok
}
