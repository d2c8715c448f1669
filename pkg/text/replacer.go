package text

import (
	"context"
	"io"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrRuleNotMatched is returned when a rule's search text is absent and the
// missing policy is MissingError.
var ErrRuleNotMatched = errors.Base("rule did not match")

// 🎯 Occurrence selects how many matches of a rule are replaced
type Occurrence string

const (
	// OccurrenceAll replaces every match. It is the default.
	OccurrenceAll Occurrence = "all"
	// OccurrenceFirst replaces only the leftmost match.
	OccurrenceFirst Occurrence = "first"
)

// 🔍 ParseOccurrence converts a config value into an Occurrence
func ParseOccurrence(s string) (Occurrence, error) {
	switch Occurrence(strings.ToLower(strings.TrimSpace(s))) {
	case "", OccurrenceAll:
		return OccurrenceAll, nil
	case OccurrenceFirst:
		return OccurrenceFirst, nil
	default:
		return "", errors.Errorf("unknown occurrence %q (want all or first)", s)
	}
}

// 🚦 MissingPolicy decides what happens when a rule matches nothing
type MissingPolicy string

const (
	// MissingIgnore treats an unmatched rule as a silent no-op.
	MissingIgnore MissingPolicy = "ignore"
	// MissingWarn treats an unmatched rule as a no-op and logs a warning.
	MissingWarn MissingPolicy = "warn"
	// MissingError aborts the rewrite before anything is written.
	MissingError MissingPolicy = "error"
)

// 🔍 ParseMissingPolicy converts a config or flag value into a MissingPolicy
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MissingWarn:
		return MissingWarn, nil
	case MissingIgnore:
		return MissingIgnore, nil
	case MissingError:
		return MissingError, nil
	default:
		return "", errors.Errorf("unknown missing policy %q (want ignore, warn or error)", s)
	}
}

// ReplacementRule defines a single literal text replacement
type ReplacementRule struct {
	// Name identifies the rule in logs and reports
	Name string

	// FromText is the literal text to replace
	FromText string

	// ToText is the replacement text
	ToText string

	// Occurrence selects all matches (default) or only the first
	Occurrence Occurrence

	// FileFilterGlob limits the rule to targets matching the glob; empty means every target
	FileFilterGlob string
}

// Label returns the rule name, or a positional label when the rule is unnamed
func (r ReplacementRule) Label(index int) string {
	if r.Name != "" {
		return r.Name
	}
	return "rule-" + strconv.Itoa(index+1)
}

// RuleOutcome records what a single rule did to the buffer
type RuleOutcome struct {
	Rule    ReplacementRule
	Index   int // position of Rule in the slice it was applied from
	Matches int // occurrences of FromText in the buffer the rule saw
}

// Label names the outcome's rule by its position in the applied slice
func (o RuleOutcome) Label() string {
	return o.Rule.Label(o.Index)
}

// Applied reports whether the rule changed anything
func (o RuleOutcome) Applied() bool {
	return o.Matches > 0
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte

	// Outcomes holds one entry per rule, in application order
	Outcomes []RuleOutcome
}

// Unmatched returns the outcomes of rules that matched nothing
func (r *ReplacementResult) Unmatched() []RuleOutcome {
	var out []RuleOutcome
	for _, o := range r.Outcomes {
		if !o.Applied() {
			out = append(out, o)
		}
	}
	return out
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
