package dedup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk YAML shape for merge rule overrides.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRuleSet builds the merge rule table for the process. When path is
// empty the built-in defaults are used; otherwise the YAML file replaces the
// table entirely. The result is validated either way.
func LoadRuleSet(path string) (RuleSet, error) {
	if path == "" {
		return NewRuleSet(DefaultRules())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read merge rules %s: %w", path, err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RuleSet{}, fmt.Errorf("parse merge rules %s: %w", path, err)
	}
	if len(file.Rules) == 0 {
		return RuleSet{}, fmt.Errorf("merge rules %s: no rules defined", path)
	}

	return NewRuleSet(file.Rules)
}
