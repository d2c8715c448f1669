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
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/pkg/log"
)

func main() {
	os.Exit(run(context.Background(), newRootCmd()))
}

// run executes cmd and returns the process exit code. Failures are
// reported on the command's stderr.
func run(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.New(cmd.ErrOrStderr(), zerolog.Nop()).Errorf("%v", err)
		return 1
	}
	return 0
}

// setupLogging attaches a zerolog logger writing to the command's stderr
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}).
		Level(level).
		With().Timestamp().Logger()
	return logger.WithContext(cmd.Context())
}
