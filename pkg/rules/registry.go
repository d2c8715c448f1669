// Package rules holds the built-in rule tables, keyed by rule set name.
package rules

import (
	"sort"
	"sync"

	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📚 RuleSet is an ordered rule table plus what it expects to rewrite
type RuleSet struct {
	Name string

	// DefaultTarget is rewritten when no target is given
	DefaultTarget string

	// ReviewNote names the areas a human still has to check after the run
	ReviewNote string

	Rules []text.ReplacementRule
}

var (
	mu       sync.RWMutex
	registry = map[string]RuleSet{}
)

// 📝 Register adds a rule set; registering the same name twice panics
func Register(rs RuleSet) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[rs.Name]; ok {
		panic("rules: rule set registered twice: " + rs.Name)
	}
	registry[rs.Name] = rs
}

// 🎯 Get returns a copy of the named rule set
func Get(name string) (RuleSet, error) {
	mu.RLock()
	defer mu.RUnlock()
	rs, ok := registry[name]
	if !ok {
		return RuleSet{}, errors.Errorf("unknown rule set %q", name)
	}
	rs.Rules = append([]text.ReplacementRule(nil), rs.Rules...)
	return rs, nil
}

// Names lists registered rule sets in sorted order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
