package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what each rule would do, without writing",
		Long: `Check runs the rule set in memory against each target and reports
per rule how many matches it finds, then runs the rules again over that
result to show which rules would change the file a second time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			plan, err := o.Plan(cmd)
			if err != nil {
				return err
			}

			runner := operation.NewRunner(rewrite.New(rewrite.Options{OnMissing: plan.OnMissing}), plan.Jobs)
			reports, err := runner.Check(ctx, plan.Targets, plan.RuleSet.Rules)
			if err != nil {
				return errors.Errorf("checking: %w", err)
			}

			for _, rep := range reports {
				logger.Header(rep.Path)

				reapplied := map[int]bool{}
				for _, r := range rep.Reapplied {
					reapplied[r.Index] = true
				}
				for _, out := range rep.Outcomes {
					logger.LogRule(ctx, log.RuleLine{
						Name:      out.Label(),
						Matches:   out.Matches,
						Reapplies: reapplied[out.Index],
					})
				}

				if rep.FixedPoint() {
					logger.Success("A second run would leave the file unchanged")
				} else {
					logger.Warningf("%d rule(s) would change the file again on a second run", len(rep.Reapplied))
				}
			}

			return nil
		},
	}

	return cmd
}
