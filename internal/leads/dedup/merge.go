// Package dedup implements duplicate classification and merge resolution for
// lead records. Both entry points are pure functions over in-memory values:
// no I/O, no shared state, safe for concurrent use on independent inputs.
package dedup

import (
	"fmt"

	"crm_portal_backend/internal/leads/domain"
)

// Side identifies which input record a merge decision chose.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
	// SideNone marks a deferred decision (manual priority).
	SideNone Side = ""
)

// MergeDecision is the audit record for a single resolved field.
type MergeDecision struct {
	Field    Field  `json:"field"`
	Chosen   Side   `json:"chosen"`
	Reason   string `json:"reason"`
	ValueA   string `json:"valueA"`
	ValueB   string `json:"valueB"`
	Deferred bool   `json:"deferred,omitempty"`
}

// MergedLead is the sparse merge output: only rule-governed fields are
// populated. Alternates carry the losing values of keepBoth fields so no
// contact channel is silently lost.
type MergedLead struct {
	Nome                  *string
	Telefone              *string
	TelefonesAlternativos []string
	Email                 *string
	EmailsAlternativos    []string
	Empresa               *string
	Necessidade           *string
	Estagio               *string
	ScoreBant             *int
	Qualificacao          *domain.Qualificacao
	Proposta              *string
	Origem                *string
}

// MergedLeadResult pairs the sparse merged record with the ordered decisions
// that produced it. Deferred lists fields left unresolved for a human.
type MergedLeadResult struct {
	Merged    MergedLead
	Decisions []MergeDecision
	Deferred  []Field
}

// Resolve merges two lead records assumed to be duplicates, applying the rule
// set field by field. The selected value for every field is independent of
// argument order; only the recorded A/B labels flip when the inputs swap.
func Resolve(a, b domain.Lead, rules RuleSet) MergedLeadResult {
	result := MergedLeadResult{
		Decisions: make([]MergeDecision, 0, len(rules.rules)),
	}

	for _, rule := range rules.rules {
		acc := fieldAccessors[rule.Field]

		decision := MergeDecision{
			Field:  rule.Field,
			ValueA: acc.value(a),
			ValueB: acc.value(b),
		}

		if rule.Priority == PriorityManual {
			decision.Chosen = SideNone
			decision.Reason = "manual resolution required"
			decision.Deferred = true
			result.Decisions = append(result.Decisions, decision)
			result.Deferred = append(result.Deferred, rule.Field)
			continue
		}

		winner, reason := resolveWinner(rule.Priority, rule.Field, a, b)
		decision.Chosen = winner
		decision.Reason = reason

		winning, losing := a, b
		if winner == SideB {
			winning, losing = b, a
		}
		acc.assign(&result.Merged, winning)

		if rule.KeepBoth {
			loserValue := acc.value(losing)
			if loserValue != "" && loserValue != acc.value(winning) {
				acc.keepAlternate(&result.Merged, losing)
			}
		}

		result.Decisions = append(result.Decisions, decision)
	}

	return result
}

// resolveWinner applies the priority chain for one field. Each strategy falls
// through to the next on a tie; the final lexicographic step guarantees a
// deterministic, order-independent outcome.
func resolveWinner(priority Priority, field Field, a, b domain.Lead) (Side, string) {
	acc := fieldAccessors[field]

	switch priority {
	case PriorityHighestStage:
		if side, reason, ok := stageWinner(a, b); ok {
			return side, reason
		}
		fallthrough
	case PriorityNewest:
		if side, reason, ok := newestWinner(a, b); ok {
			return side, reason
		}
		fallthrough
	case PriorityMostComplete:
		if side, reason, ok := mostCompleteWinner(acc, a, b); ok {
			return side, reason
		}
	}

	return canonicalWinner(acc.value(a), acc.value(b))
}

// mostCompleteWinner prefers non-empty over empty, then the longer value.
// An empty value never wins over a non-empty one regardless of recency.
func mostCompleteWinner(acc fieldAccessor, a, b domain.Lead) (Side, string, bool) {
	emptyA, emptyB := acc.isEmpty(a), acc.isEmpty(b)
	va, vb := acc.value(a), acc.value(b)

	switch {
	case emptyA && emptyB:
		return SideA, "both values empty", true
	case emptyA:
		return SideB, "B has the only value", true
	case emptyB:
		return SideA, "A has the only value", true
	}

	if va == vb {
		return SideA, "values identical", true
	}
	if len(va) > len(vb) {
		return SideA, "A has the more complete value", true
	}
	if len(vb) > len(va) {
		return SideB, "B has the more complete value", true
	}

	return SideNone, "", false
}

func newestWinner(a, b domain.Lead) (Side, string, bool) {
	if a.UpdatedAt.After(b.UpdatedAt) {
		return SideA, "A is more recently updated", true
	}
	if b.UpdatedAt.After(a.UpdatedAt) {
		return SideB, "B is more recently updated", true
	}
	return SideNone, "", false
}

func stageWinner(a, b domain.Lead) (Side, string, bool) {
	rankA, rankB := domain.StageRank(a.Estagio), domain.StageRank(b.Estagio)
	if rankA > rankB {
		return SideA, fmt.Sprintf("A is further along the pipeline (%s > %s)", a.Estagio, b.Estagio), true
	}
	if rankB > rankA {
		return SideB, fmt.Sprintf("B is further along the pipeline (%s > %s)", b.Estagio, a.Estagio), true
	}
	return SideNone, "", false
}

// canonicalWinner breaks exhausted ties by byte order of the values. The
// comparison depends only on the values, so swapping A and B cannot change
// which value wins.
func canonicalWinner(va, vb string) (Side, string) {
	if vb < va {
		return SideB, "tie broken by canonical value order"
	}
	return SideA, "tie broken by canonical value order"
}
