// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is an extra replacement declared in a config file
type Rule struct {
	Name       string `json:"name" yaml:"name"`
	From       string `json:"from" yaml:"from"`
	To         string `json:"to" yaml:"to"`
	Occurrence string `json:"occurrence,omitempty" yaml:"occurrence,omitempty"`
	Files      string `json:"files,omitempty" yaml:"files,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Targets   []string `json:"targets,omitempty" yaml:"targets,omitempty"`
	RuleSet   string   `json:"rule_set,omitempty" yaml:"rule_set,omitempty"`
	OnMissing string   `json:"on_missing,omitempty" yaml:"on_missing,omitempty"`
	DryRun    bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Jobs      int      `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Rules     []Rule   `json:"rules,omitempty" yaml:"rules,omitempty"`

	location string
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Location is the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOptional loads path, falling back to Default when the file does not exist
func LoadOptional(ctx context.Context, path string) (*Config, error) {
	cfg, err := Load(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file; using defaults")
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.RuleSet == "" {
		cfg.RuleSet = rules.ModalConfirmacionVenta
	}
	if cfg.OnMissing == "" {
		cfg.OnMissing = string(text.MissingWarn)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative")
	}
	cfg.setDefaults()

	if _, err := text.ParseMissingPolicy(cfg.OnMissing); err != nil {
		return errors.Errorf("on_missing: %w", err)
	}
	if _, err := rules.Get(cfg.RuleSet); err != nil {
		return errors.Errorf("rule_set: %w", err)
	}
	for i, t := range cfg.Targets {
		if t == "" {
			return errors.Errorf("targets[%d] is empty", i)
		}
	}

	extra, err := cfg.extraRules()
	if err != nil {
		return err
	}
	if err := text.ValidateRules(extra); err != nil {
		return errors.Errorf("rules: %w", err)
	}

	return nil
}

func (cfg *Config) extraRules() ([]text.ReplacementRule, error) {
	out := make([]text.ReplacementRule, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		occ, err := text.ParseOccurrence(r.Occurrence)
		if err != nil {
			return nil, errors.Errorf("rules[%d]: %w", i, err)
		}
		out = append(out, text.ReplacementRule{
			Name:           r.Name,
			FromText:       r.From,
			ToText:         r.To,
			Occurrence:     occ,
			FileFilterGlob: r.Files,
		})
	}
	return out, nil
}

// Plan is a resolved configuration, ready to run
type Plan struct {
	RuleSet   rules.RuleSet
	Targets   []string
	OnMissing text.MissingPolicy
	DryRun    bool
	Jobs      int
}

// 🎯 Resolve turns the configuration into a Plan. Config rules run after the
// rule set's own rules; targets default to the rule set's target.
func (cfg *Config) Resolve() (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rs, err := rules.Get(cfg.RuleSet)
	if err != nil {
		return nil, errors.Errorf("resolving rule set: %w", err)
	}
	extra, err := cfg.extraRules()
	if err != nil {
		return nil, err
	}
	rs.Rules = append(rs.Rules, extra...)

	policy, err := text.ParseMissingPolicy(cfg.OnMissing)
	if err != nil {
		return nil, errors.Errorf("on_missing: %w", err)
	}

	targets := cfg.Targets
	if len(targets) == 0 {
		if rs.DefaultTarget == "" {
			return nil, errors.Errorf("rule set %q has no default target; set targets", rs.Name)
		}
		targets = []string{rs.DefaultTarget}
	}

	return &Plan{
		RuleSet:   rs,
		Targets:   targets,
		OnMissing: policy,
		DryRun:    cfg.DryRun,
		Jobs:      cfg.Jobs,
	}, nil
}
