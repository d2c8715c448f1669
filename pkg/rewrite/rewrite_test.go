package rewrite

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// copyFixture places the modal fixture in a temp dir and returns its path
func copyFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "ModalConfirmacionVenta.tsx"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ModalConfirmacionVenta.tsx")
	require.NoError(t, os.WriteFile(path, data, 0o640))
	return path
}

func modalRules(t *testing.T) []text.ReplacementRule {
	t.Helper()
	rs, err := rules.Get(rules.ModalConfirmacionVenta)
	require.NoError(t, err)
	return rs.Rules
}

func TestRewriteModalGolden(t *testing.T) {
	path := copyFixture(t)

	result, err := New(Options{OnMissing: text.MissingError}).Rewrite(context.Background(), path, modalRules(t))
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.True(t, result.Replacement.WasModified)
	assert.Empty(t, result.Replacement.Unmatched(), "every rule should match the fixture")

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "modal_confirmacion_venta", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o640), info.Mode().Perm(), "permissions should survive the rewrite")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestRewriteErrors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T) string
		opts      Options
		rules     []text.ReplacementRule
		wantError error
		unchanged bool
	}{
		{
			name: "missing_file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.tsx")
			},
			rules:     []text.ReplacementRule{{FromText: "a", ToText: "b"}},
			wantError: fs.ErrNotExist,
		},
		{
			name: "invalid_utf8",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "bin.tsx")
				require.NoError(t, os.WriteFile(path, []byte{'a', 0xff, 0xfe}, 0o644))
				return path
			},
			rules:     []text.ReplacementRule{{FromText: "a", ToText: "b"}},
			wantError: ErrNotUTF8,
			unchanged: true,
		},
		{
			name: "unmatched_rule_with_error_policy",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "f.tsx")
				require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
				return path
			},
			opts: Options{OnMissing: text.MissingError},
			rules: []text.ReplacementRule{
				{FromText: "a", ToText: "b"},
				{FromText: "zzz", ToText: "y"},
			},
			wantError: text.ErrRuleNotMatched,
			unchanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			var before []byte
			if tt.unchanged {
				var err error
				before, err = os.ReadFile(path)
				require.NoError(t, err)
			}

			_, err := New(tt.opts).Rewrite(context.Background(), path, tt.rules)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantError), "got %v", err)

			if tt.unchanged {
				after, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, before, after, "file should not be touched")
			}
		})
	}
}

func TestRewriteUnmatchedIsTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.tsx")
	require.NoError(t, os.WriteFile(path, []byte("already migrated\n"), 0o644))

	result, err := New(Options{OnMissing: text.MissingWarn}).Rewrite(context.Background(), path, modalRules(t))
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.False(t, result.Replacement.WasModified)
	assert.Len(t, result.Replacement.Unmatched(), 9)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "already migrated\n", string(got))
}

func TestRewriteDryRun(t *testing.T) {
	path := copyFixture(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := New(Options{DryRun: true}).Rewrite(context.Background(), path, modalRules(t))
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.Contains(t, result.Patch, "@@")
	assert.Equal(t, string(result.Replacement.ModifiedContent), applyPatch(t, string(before), result.Patch))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "dry run should not write")
}

func TestRewriteFileFilterGlob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("foo bar"), 0o644))

	result, err := New(Options{}).Rewrite(context.Background(), path, []text.ReplacementRule{
		{Name: "tsx-only", FromText: "foo", ToText: "baz", FileFilterGlob: "**/*.tsx"},
		{Name: "everywhere", FromText: "bar", ToText: "qux"},
	})
	require.NoError(t, err)
	require.Len(t, result.Replacement.Outcomes, 1)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "foo qux", string(got))
}

func TestCheckReportsNonIdempotentRules(t *testing.T) {
	path := copyFixture(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	report, err := New(Options{}).Check(context.Background(), path, modalRules(t))
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 9)
	for _, o := range report.Outcomes {
		assert.Equal(t, 1, o.Matches, o.Rule.Name)
	}

	assert.False(t, report.FixedPoint())
	var names []string
	var indexes []int
	for _, o := range report.Reapplied {
		names = append(names, o.Rule.Name)
		indexes = append(indexes, o.Index)
	}
	assert.Equal(t, []string{"add-style-and-iconify-imports", "add-ui-imports"}, names)
	assert.Equal(t, []int{3, 5}, indexes)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "check should not write")
}

func TestCheckFixedPoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	report, err := New(Options{}).Check(context.Background(), path, []text.ReplacementRule{{FromText: "a", ToText: "b"}})
	require.NoError(t, err)
	assert.True(t, report.FixedPoint())
}

func TestCheckUnnamedRulesKeepTheirIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("ab"), 0o644))

	rules := []text.ReplacementRule{
		{FromText: "a", ToText: "x"},
		{FromText: "b", ToText: "bb"},
	}
	report, err := New(Options{}).Check(context.Background(), path, rules)
	require.NoError(t, err)

	require.Len(t, report.Reapplied, 1)
	assert.Equal(t, 1, report.Reapplied[0].Index)
	assert.Equal(t, "rule-2", report.Reapplied[0].Label())
	assert.Equal(t, report.Outcomes[1].Index, report.Reapplied[0].Index)
}

func TestPatch(t *testing.T) {
	assert.Empty(t, Patch("same", "same"))

	p := Patch("hello world\n", "hello there\n")
	assert.Contains(t, p, "@@")
	assert.Equal(t, "hello there\n", applyPatch(t, "hello world\n", p))
}

func applyPatch(t *testing.T, before, patch string) string {
	t.Helper()
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	require.NoError(t, err)
	out, applied := dmp.PatchApply(patches, before)
	for i, ok := range applied {
		require.True(t, ok, "hunk %d should apply", i)
	}
	return out
}
