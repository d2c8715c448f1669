package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rewrite the target files in place",
		Long: `Run applies the rule set to each target, in order, and overwrites the file.
It will:
1. Read the whole target into memory
2. Apply every rule, each one seeing the output of the previous
3. Write the result back to the same path
4. Print a completion line and a manual review reminder`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, o)
		},
	}

	return cmd
}

// Run is shared by the root and run commands
func Run(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	plan, err := o.Plan(cmd)
	if err != nil {
		return err
	}

	rw := rewrite.New(rewrite.Options{
		OnMissing: plan.OnMissing,
		DryRun:    plan.DryRun,
	})

	results, err := operation.NewRunner(rw, plan.Jobs).Run(ctx, plan.Targets, plan.RuleSet.Rules)
	if err != nil {
		return errors.Errorf("rewriting: %w", err)
	}

	for _, res := range results {
		if !res.Written {
			logger.Raw(res.Patch)
			logger.Infof("Dry run, %s left untouched (%d replacements)", res.Path, res.Replacement.ReplacementCount)
			continue
		}
		logger.Successf("Refactorización completada: %s", res.Path)
	}

	if plan.RuleSet.ReviewNote != "" {
		logger.Warning(plan.RuleSet.ReviewNote)
	}

	return nil
}
