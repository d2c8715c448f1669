package rewrite

import (
	"context"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Patch renders the change from before to after as a textual patch.
// Identical inputs produce an empty string.
func Patch(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}

// 🔍 Report is what Check found for one file
type Report struct {
	Path string

	// Outcomes of the first pass, one per applicable rule
	Outcomes []text.RuleOutcome

	// Reapplied lists rules that would change the already rewritten buffer again
	Reapplied []text.RuleOutcome
}

// FixedPoint reports whether a second run over the rewritten file changes nothing
func (r *Report) FixedPoint() bool {
	return len(r.Reapplied) == 0
}

// Check runs the rules twice in memory without touching the file: once over
// the current content and once over the result of that first pass.
func (r *Rewriter) Check(ctx context.Context, path string, rules []text.ReplacementRule) (*Report, error) {
	applicable, err := text.FilterRules(path, rules)
	if err != nil {
		return nil, errors.Errorf("filtering rules: %w", err)
	}

	content, err := readFile(path)
	if err != nil {
		return nil, err
	}

	first, err := text.ApplyContext(ctx, string(content), applicable, text.MissingIgnore)
	if err != nil {
		return nil, errors.Errorf("first pass: %w", err)
	}

	report := &Report{Path: path, Outcomes: first.Outcomes}

	// rules are re-run one at a time so each reapplied rule is attributed on its own
	buffer := string(first.ModifiedContent)
	for i, rule := range applicable {
		second, err := text.ApplyContext(ctx, buffer, []text.ReplacementRule{rule}, text.MissingIgnore)
		if err != nil {
			return nil, errors.Errorf("second pass: %w", err)
		}
		if second.WasModified {
			for _, o := range second.Outcomes {
				o.Index = i
				report.Reapplied = append(report.Reapplied, o)
			}
		}
		buffer = string(second.ModifiedContent)
	}

	return report, nil
}
