package opts

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains flags and dependencies shared by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool

	Targets   []string
	DryRun    bool
	OnMissing string
	RuleSet   string
	Jobs      int

	Config *config.Config
}

// Plan applies flags set on cmd over the loaded config and resolves the result
func (o *RootOpts) Plan(cmd *cobra.Command) (*config.Plan, error) {
	if o.Config == nil {
		return nil, errors.Errorf("config not loaded")
	}

	cfg := *o.Config
	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Targets = o.Targets
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = o.DryRun
	}
	if flags.Changed("on-missing") {
		cfg.OnMissing = o.OnMissing
	}
	if flags.Changed("rule-set") {
		cfg.RuleSet = o.RuleSet
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.Jobs
	}

	plan, err := cfg.Resolve()
	if err != nil {
		return nil, errors.Errorf("resolving plan: %w", err)
	}
	return plan, nil
}
