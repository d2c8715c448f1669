package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

const previewWidth = 48

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules in application order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := o.Plan(cmd)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"#", "Name", "Occurrence", "Files", "Search"}}
			for i, r := range plan.RuleSet.Rules {
				occ := string(r.Occurrence)
				if occ == "" {
					occ = "all"
				}
				files := r.FileFilterGlob
				if files == "" {
					files = "*"
				}
				data = append(data, []string{strconv.Itoa(i + 1), r.Label(i), occ, files, preview(r.FromText)})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rule set %s (available: %s)\n", plan.RuleSet.Name, strings.Join(rules.Names(), ", "))
			fmt.Fprintln(out, table)
			return nil
		},
	}

	return cmd
}

// preview shows the first line of s, shortened to previewWidth runes
func preview(s string) string {
	first, _, more := strings.Cut(s, "\n")
	r := []rune(first)
	if len(r) > previewWidth {
		return string(r[:previewWidth-1]) + "…"
	}
	if more {
		return first + " ↵"
	}
	return first
}
