package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree. Running it with no subcommand rewrites
// the default rule set's target, as run does.
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:           "rewriterc",
		Short:         "Rewrite a source file in place with an ordered table of literal replacements",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, o.Debug)

			// only the default config file may be absent
			load := config.LoadOptional
			if cmd.Flags().Changed("config") {
				load = config.Load
			}
			cfg, err := load(ctx, o.ConfigFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if cfg.Location() != "" {
				zerolog.Ctx(ctx).Debug().Str("path", cfg.Location()).Msg("config loaded")
			}
			o.Config = cfg

			cmd.SetContext(log.NewContext(ctx, log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Run(cmd, o)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(commands.NewRunCmd(o))
	cmd.AddCommand(commands.NewCheckCmd(o))
	cmd.AddCommand(commands.NewRulesCmd(o))

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.ConfigFile, "config", "c", ".rewriterc.hcl", "config file path (optional)")
	flags.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	flags.StringArrayVarP(&o.Targets, "target", "t", nil, "file or glob to rewrite (repeatable)")
	flags.BoolVar(&o.DryRun, "dry-run", false, "print a patch instead of writing")
	flags.StringVar(&o.OnMissing, "on-missing", "warn", "what an unmatched rule does: ignore, warn or error")
	flags.StringVar(&o.RuleSet, "rule-set", "", "built-in rule set to apply")
	flags.IntVarP(&o.Jobs, "jobs", "j", 1, "files rewritten in parallel")
}
