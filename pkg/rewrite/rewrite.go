// Package rewrite reads a target file, runs a rule table over it and writes
// the result back to the same path.
package rewrite

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNotUTF8 is returned when the target is not valid UTF-8 text.
var ErrNotUTF8 = errors.Base("target is not valid UTF-8")

// 🔧 Options configures a Rewriter
type Options struct {
	// OnMissing decides what an unmatched rule does; defaults to warn
	OnMissing text.MissingPolicy

	// DryRun computes the result and a patch without writing
	DryRun bool
}

// 📝 Rewriter rewrites files in place with a rule table
type Rewriter struct {
	replacer text.TextReplacer
	dryRun   bool
}

// 🏭 New creates a Rewriter
func New(opts Options) *Rewriter {
	return &Rewriter{
		replacer: text.NewSimpleTextReplacer(opts.OnMissing),
		dryRun:   opts.DryRun,
	}
}

// Result describes one rewritten file
type Result struct {
	Path        string
	Replacement *text.ReplacementResult

	// Written is false for dry runs
	Written bool

	// Patch is the textual patch of the change, set for dry runs only
	Patch string
}

// Rewrite loads path, applies the rules that apply to it in order and
// overwrites path with the result. The read handle is closed before the
// write starts. An unmatched rule never aborts the run unless the missing
// policy is text.MissingError, in which case nothing is written.
func (r *Rewriter) Rewrite(ctx context.Context, path string, rules []text.ReplacementRule) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()
	ctx = logger.WithContext(ctx)

	applicable, err := text.FilterRules(path, rules)
	if err != nil {
		return nil, errors.Errorf("filtering rules: %w", err)
	}

	replaced, err := r.load(ctx, path, applicable)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Path:        path,
		Replacement: replaced,
	}

	if r.dryRun {
		result.Patch = Patch(string(replaced.OriginalContent), string(replaced.ModifiedContent))
		logger.Debug().Int("replacements", replaced.ReplacementCount).Msg("dry run; file left untouched")
		return result, nil
	}

	if err := writeFile(path, replaced.ModifiedContent); err != nil {
		return nil, errors.Errorf("writing %s: %w", path, err)
	}
	result.Written = true

	logger.Debug().
		Int("replacements", replaced.ReplacementCount).
		Bool("modified", replaced.WasModified).
		Msg("file rewritten")

	return result, nil
}

// load reads path and runs rules over the buffer
func (r *Rewriter) load(ctx context.Context, path string, rules []text.ReplacementRule) (*text.ReplacementResult, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, err
	}

	replaced, err := r.replacer.ReplaceText(ctx, bytes.NewReader(content), rules)
	if err != nil {
		return nil, errors.Errorf("rewriting %s: %w", path, err)
	}
	return replaced, nil
}

// readFile returns the whole file; the handle is closed before it returns
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(content) {
		return nil, errors.Errorf("decoding %s: %w", path, ErrNotUTF8)
	}
	return content, nil
}

// writeFile replaces path through a temp file in the same directory so a
// failed write leaves the original untouched. Permission bits are kept.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stat: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".rewrite-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("replacing file: %w", err)
	}
	return nil
}
