/*
Package text applies ordered tables of literal replacements to a text buffer.

	+-----------+      +-----------+      +-----------+
	|  buffer   | ---> |  rule 1   | ---> |  rule 2   | ---> ...
	+-----------+      +-----------+      +-----------+

🎯 Purpose:
- Run rules strictly in order over one in-memory buffer
- Record per-rule match counts
- Make the "rule matched nothing" case an explicit policy

🔄 Semantics:
1. Search and replacement texts are literal; there is no pattern syntax
2. Each rule sees the output of the rules before it
3. Occurrence is per rule: every match (default) or only the first
4. Text outside matched regions is left byte-for-byte as it was

🚦 Missing policy:
- ignore: unmatched rules are silent no-ops
- warn:   unmatched rules are no-ops and are logged (default)
- error:  the first unmatched rule fails the whole run

🔍 Example:

	result, err := text.Apply(content, rules, text.MissingError)
	if errors.Is(err, text.ErrRuleNotMatched) {
		// a rule drifted away from the target file
	}
*/
package text
