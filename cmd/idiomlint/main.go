// Command idiomlint lints Rust program models for non-idiomatic code.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/idiomlint/internal/cli"
	"github.com/yaklabco/idiomlint/internal/logging"

	_ "github.com/yaklabco/idiomlint/pkg/lint/rules" // registers the built-in rules
)

// Set through -ldflags by the release build.
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date}).Execute()

	// Failing diagnostics have already been reported.
	if err != nil && !errors.Is(err, cli.ErrLintIssuesFound) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	os.Exit(cli.ExitCodeFromError(err))
}
