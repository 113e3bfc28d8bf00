package dedup

import (
	"fmt"

	"crm_portal_backend/platform/apperr"
)

// Priority is the conflict resolution strategy for a merge rule.
type Priority string

const (
	// PriorityNewest prefers the value from the more recently updated record.
	PriorityNewest Priority = "newest"
	// PriorityMostComplete prefers the non-empty, then longer, value.
	PriorityMostComplete Priority = "most_complete"
	// PriorityHighestStage prefers the value from the record further along
	// the pipeline ordering.
	PriorityHighestStage Priority = "highest_stage"
	// PriorityManual defers the field to a human decision.
	PriorityManual Priority = "manual"
)

var knownPriorities = map[Priority]struct{}{
	PriorityNewest:       {},
	PriorityMostComplete: {},
	PriorityHighestStage: {},
	PriorityManual:       {},
}

// Rule governs the merge of one lead field.
type Rule struct {
	Field    Field    `yaml:"field"`
	Priority Priority `yaml:"priority"`
	// KeepBoth retains the losing value as an alternate instead of
	// discarding it. Only supported for fields with an alternates list.
	KeepBoth bool `yaml:"keep_both"`
}

// RuleSet is a validated, immutable merge rule table. Construct one at
// process start with NewRuleSet and pass it into Resolve.
type RuleSet struct {
	rules []Rule
}

// Rules returns a copy of the governed rules in resolution order.
func (rs RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// NewRuleSet validates the rule table. Any unknown field, unknown priority,
// duplicate field, or unsupported keepBoth is a configuration fault: the
// caller must treat the error as fatal, not skip the rule.
func NewRuleSet(rules []Rule) (RuleSet, error) {
	seen := make(map[Field]struct{}, len(rules))

	for _, rule := range rules {
		acc, ok := fieldAccessors[rule.Field]
		if !ok {
			return RuleSet{}, apperr.Configuration(fmt.Sprintf("merge rule references unknown field %q", rule.Field))
		}
		if _, ok := knownPriorities[rule.Priority]; !ok {
			return RuleSet{}, apperr.Configuration(fmt.Sprintf("merge rule for %q has unsupported priority %q", rule.Field, rule.Priority))
		}
		if _, dup := seen[rule.Field]; dup {
			return RuleSet{}, apperr.Configuration(fmt.Sprintf("duplicate merge rule for field %q", rule.Field))
		}
		if rule.KeepBoth && acc.keepAlternate == nil {
			return RuleSet{}, apperr.Configuration(fmt.Sprintf("field %q does not support keepBoth", rule.Field))
		}
		seen[rule.Field] = struct{}{}
	}

	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return RuleSet{rules: copied}, nil
}

// DefaultRules is the built-in merge rule table. Fields absent from the table
// (metadata, timestamps) are not merged automatically.
func DefaultRules() []Rule {
	return []Rule{
		{Field: FieldNome, Priority: PriorityMostComplete},
		{Field: FieldTelefone, Priority: PriorityMostComplete, KeepBoth: true},
		{Field: FieldEmail, Priority: PriorityMostComplete, KeepBoth: true},
		{Field: FieldEmpresa, Priority: PriorityMostComplete},
		{Field: FieldNecessidade, Priority: PriorityMostComplete},
		{Field: FieldEstagio, Priority: PriorityHighestStage},
		// score_bant follows pipeline progress, not score magnitude: the
		// record further along the funnel keeps its score even when the
		// other side's number is higher.
		{Field: FieldScoreBant, Priority: PriorityHighestStage},
		{Field: FieldQualificacao, Priority: PriorityNewest},
		{Field: FieldProposta, Priority: PriorityManual},
		{Field: FieldOrigem, Priority: PriorityNewest},
	}
}

// DefaultRuleSet returns the validated built-in rule table.
func DefaultRuleSet() RuleSet {
	rs, err := NewRuleSet(DefaultRules())
	if err != nil {
		// The built-in table is covered by tests; failing here means the
		// binary itself is broken.
		panic(err)
	}
	return rs
}
