// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../pkg/rewrite/testdata"

func copyModal(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtureDir, "ModalConfirmacionVenta.tsx"))
	require.NoError(t, err)
	path := filepath.Join(dir, "ModalConfirmacionVenta.tsx")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// an empty config keeps a stray one in the working directory out of the test
	cfgPath := filepath.Join(t.TempDir(), "empty.hcl")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o644))

	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootRewritesAndPrintsTwoLines(t *testing.T) {
	path := copyModal(t, t.TempDir())

	stdout, _, err := execute(t, "--target", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✅ Refactorización completada: "+path, lines[0])
	assert.Equal(t, "⚠️  Nota: Revisa manualmente el Dialog, Paper->Card y los botones", lines[1])

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(fixtureDir, "golden", "modal_confirmacion_venta.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestRunMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.tsx")

	stdout, _, err := execute(t, "run", "--target", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.tsx")
	assert.Empty(t, stdout, "nothing should be reported on failure")
}

func TestMissingExplicitConfig(t *testing.T) {
	path := copyModal(t, t.TempDir())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	color.NoColor = true
	defer func() { color.NoColor = false }()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "--target", path})

	assert.Equal(t, 1, run(context.Background(), cmd))
	assert.Contains(t, stderr.String(), "❌ loading config: reading config file")
	assert.Contains(t, stderr.String(), "missing.yaml")
	assert.Empty(t, stdout.String())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "target must not be rewritten with defaults")
}

func TestMissingDefaultConfigIsTolerated(t *testing.T) {
	path := copyModal(t, t.TempDir())

	// the default .rewriterc.hcl is looked up in the working directory
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	color.NoColor = true
	defer func() { color.NoColor = false }()
	stdout := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--target", path})

	assert.Equal(t, 0, run(context.Background(), cmd))
	assert.Contains(t, stdout.String(), "Refactorización completada: "+path)
}

func TestRunOnMissingError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.tsx")
	require.NoError(t, os.WriteFile(path, []byte("already migrated"), 0o644))

	_, _, err := execute(t, "run", "--target", path, "--on-missing", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule did not match: drop-button-import")

	_, stderr, err := execute(t, "run", "--target", path)
	require.NoError(t, err, "warn policy tolerates unmatched rules")
	assert.Contains(t, stderr, "rule matched nothing")
}

func TestRunDryRun(t *testing.T) {
	path := copyModal(t, t.TempDir())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	stdout, _, err := execute(t, "run", "--target", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "@@")
	assert.Contains(t, stdout, "Dry run, "+path+" left untouched")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := copyModal(t, dir)
	cfgPath := filepath.Join(dir, "rewriterc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
targets:
  - `+filepath.Join(dir, "*.tsx")+`
on_missing: error
rules:
  - name: rename-component
    from: "export const ModalConfirmacionVenta:"
    to: "export const ModalConfirmacionVentaV2:"
`), 0o644))

	color.NoColor = true
	defer func() { color.NoColor = false }()
	stdout := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Refactorización completada: "+path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "export const ModalConfirmacionVentaV2:")
	assert.Contains(t, string(got), "'mdi:cash'")
}

func TestCheckCommand(t *testing.T) {
	path := copyModal(t, t.TempDir())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	stdout, _, err := execute(t, "check", "--target", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "drop-button-import")
	assert.Contains(t, stdout, "reapplies")
	assert.Contains(t, stdout, "2 rule(s) would change the file again on a second run")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCheckCommandUnnamedConfigRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.tsx")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	cfgPath := filepath.Join(dir, "rewriterc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
rules:
  - from: "a"
    to: "aa"
`), 0o644))

	stdout, _, err := execute(t, "--config", cfgPath, "check", "--target", path)
	require.NoError(t, err)

	var row string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "rule-10") {
			row = line
		}
	}
	require.NotEmpty(t, row, "unnamed config rule follows the nine built-in rules")
	assert.Contains(t, row, "reapplies")
	assert.Contains(t, stdout, "1 rule(s) would change the file again on a second run")
}

func TestRulesCommand(t *testing.T) {
	stdout, _, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rule set modal-confirmacion-venta")
	for _, name := range []string{"drop-button-import", "iconify-payment-methods", "inject-colors-memo"} {
		assert.Contains(t, stdout, name)
	}
}

func TestUnknownRuleSet(t *testing.T) {
	_, _, err := execute(t, "rules", "--rule-set", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule set")
}
