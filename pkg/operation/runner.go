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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner rewrites a list of targets with one rule table
type Runner struct {
	rewriter *rewrite.Rewriter
	jobs     int
}

// 🏗️ NewRunner creates a runner; jobs below 1 means one file at a time
func NewRunner(rw *rewrite.Rewriter, jobs int) *Runner {
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		rewriter: rw,
		jobs:     jobs,
	}
}

// 🏃 Run expands targets and rewrites every distinct file. Results come back
// in target order. The first failure cancels files that have not started.
func (r *Runner) Run(ctx context.Context, targets []string, rules []text.ReplacementRule) ([]*rewrite.Result, error) {
	paths, err := ExpandTargets(targets)
	if err != nil {
		return nil, errors.Errorf("expanding targets: %w", err)
	}

	results := make([]*rewrite.Result, len(paths))
	err = r.each(ctx, paths, func(ctx context.Context, i int, path string) error {
		res, err := r.rewriter.Rewrite(ctx, path, rules)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// 🔍 Check reports, per distinct file, what the rules would do. Nothing is written.
func (r *Runner) Check(ctx context.Context, targets []string, rules []text.ReplacementRule) ([]*rewrite.Report, error) {
	paths, err := ExpandTargets(targets)
	if err != nil {
		return nil, errors.Errorf("expanding targets: %w", err)
	}

	reports := make([]*rewrite.Report, len(paths))
	err = r.each(ctx, paths, func(ctx context.Context, i int, path string) error {
		rep, err := r.rewriter.Check(ctx, path, rules)
		if err != nil {
			return err
		}
		reports[i] = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *Runner) each(ctx context.Context, paths []string, fn func(ctx context.Context, i int, path string) error) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("files", len(paths)).Int("jobs", r.jobs).Msg("starting run")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Errorf("skipping %s: %w", path, err)
			}
			return fn(ctx, i, path)
		})
	}
	return g.Wait()
}
