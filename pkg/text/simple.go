package text

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Apply runs rules over content in order and returns the final buffer.
// Each rule sees the buffer produced by the rules before it. Apply does no I/O.
func Apply(content string, rules []ReplacementRule, policy MissingPolicy) (*ReplacementResult, error) {
	return ApplyContext(context.Background(), content, rules, policy)
}

// ApplyContext is Apply, stopping between rules once ctx is done.
func ApplyContext(ctx context.Context, content string, rules []ReplacementRule, policy MissingPolicy) (*ReplacementResult, error) {
	result := &ReplacementResult{
		OriginalContent: []byte(content),
		Outcomes:        make([]RuleOutcome, 0, len(rules)),
	}

	current := content
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("before %s: %w", rule.Label(i), err)
		}
		if rule.FromText == "" {
			continue
		}

		matches := strings.Count(current, rule.FromText)
		outcome := RuleOutcome{Rule: rule, Index: i, Matches: matches}
		result.Outcomes = append(result.Outcomes, outcome)

		if matches == 0 {
			if policy == MissingError {
				return nil, errors.Errorf("%w: %s", ErrRuleNotMatched, rule.Label(i))
			}
			continue
		}

		if rule.Occurrence == OccurrenceFirst {
			current = strings.Replace(current, rule.FromText, rule.ToText, 1)
			result.ReplacementCount++
		} else {
			current = strings.ReplaceAll(current, rule.FromText, rule.ToText)
			result.ReplacementCount += matches
		}
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = current != content
	return result, nil
}

// FilterRules returns the rules whose FileFilterGlob matches path, in order.
// Rules without a glob always apply.
func FilterRules(path string, rules []ReplacementRule) ([]ReplacementRule, error) {
	slashed := filepath.ToSlash(path)
	out := make([]ReplacementRule, 0, len(rules))
	for i, rule := range rules {
		if rule.FileFilterGlob == "" {
			out = append(out, rule)
			continue
		}
		matched, err := doublestar.Match(rule.FileFilterGlob, slashed)
		if err != nil {
			return nil, errors.Errorf("matching %s glob %q: %w", rule.Label(i), rule.FileFilterGlob, err)
		}
		if !matched {
			// globs are usually written relative, so try the base name too
			matched, _ = doublestar.Match(rule.FileFilterGlob, filepath.Base(path))
		}
		if matched {
			out = append(out, rule)
		}
	}
	return out, nil
}

// SimpleTextReplacer implements TextReplacer using literal string replacement
type SimpleTextReplacer struct {
	OnMissing MissingPolicy
}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer(onMissing MissingPolicy) *SimpleTextReplacer {
	if onMissing == "" {
		onMissing = MissingWarn
	}
	return &SimpleTextReplacer{OnMissing: onMissing}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("replacing text: %w", err)
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result, err := ApplyContext(ctx, string(originalContent), rules, r.OnMissing)
	if err != nil {
		return nil, errors.Errorf("applying rules: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	for _, o := range result.Outcomes {
		switch {
		case o.Applied():
			logger.Debug().Str("rule", o.Label()).Int("matches", o.Matches).Msg("rule applied")
		case r.OnMissing == MissingWarn:
			logger.Warn().Str("rule", o.Label()).Msg("rule matched nothing; skipped")
		default:
			logger.Debug().Str("rule", o.Label()).Msg("rule matched nothing; skipped")
		}
	}

	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	return ValidateRules(rules)
}

// ValidateRules checks that every rule has search text, a known occurrence
// and, when set, a well-formed file glob.
func ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if _, err := ParseOccurrence(string(rule.Occurrence)); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}
