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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Rules are labelled blocks:
//
//	rule "drop-legacy-import" {
//	  from = "import legacy from 'legacy';\n"
//	  to   = ""
//	}
//
// Template sequences are evaluated, so a literal "${" is written "$${".
func (p *HCLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			// lets configs spell the non-breaking space without escapes
			"nbsp": cty.StringVal("\u00a0"),
		},
	}

	type hclConfig struct {
		Targets   []string `hcl:"targets,optional"`
		RuleSet   string   `hcl:"rule_set,optional"`
		OnMissing string   `hcl:"on_missing,optional"`
		DryRun    bool     `hcl:"dry_run,optional"`
		Jobs      int      `hcl:"jobs,optional"`
		Rules     []struct {
			Name       string `hcl:"name,label"`
			From       string `hcl:"from"`
			To         string `hcl:"to"`
			Occurrence string `hcl:"occurrence,optional"`
			Files      string `hcl:"files,optional"`
		} `hcl:"rule,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Targets:   hclCfg.Targets,
		RuleSet:   hclCfg.RuleSet,
		OnMissing: hclCfg.OnMissing,
		DryRun:    hclCfg.DryRun,
		Jobs:      hclCfg.Jobs,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, Rule{
			Name:       r.Name,
			From:       r.From,
			To:         r.To,
			Occurrence: r.Occurrence,
			Files:      r.Files,
		})
	}

	return cfg, nil
}
