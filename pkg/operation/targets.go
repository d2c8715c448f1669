package operation

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ExpandTargets turns target arguments into distinct file paths. Arguments
// with glob syntax are expanded with doublestar and must match at least one
// file; plain paths are kept as given so a missing file fails when read.
func ExpandTargets(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return nil, errors.Errorf("no targets given")
	}

	seen := make(map[string]bool, len(targets))
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, target := range targets {
		if !isGlob(target) {
			add(target)
			continue
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(target)) {
			return nil, errors.Errorf("invalid glob %q", target)
		}
		matches, err := doublestar.FilepathGlob(target, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", target, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", target)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
