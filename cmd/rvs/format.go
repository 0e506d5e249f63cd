package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rybkr/rvs/internal/gitcore"
)

const defaultAuthor = "RVS User"

// resolveAuthor returns the author string recorded on new commits: the
// RVS_AUTHOR environment variable if set, otherwise the original
// implementation's fixed placeholder.
func resolveAuthor() string {
	if a := os.Getenv("RVS_AUTHOR"); a != "" {
		return a
	}
	return defaultAuthor
}

// commitDateFormat renders a commit's Unix timestamp the way `log`/`show`
// display it.
func commitDateFormat(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format("Mon Jan 2 15:04:05 2006 -0700")
}

// fail prints err in the engine's single failure shape and returns the
// generic-failure exit code (spec.md §6).
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	return 1
}

// openRepo loads the repository containing the current directory.
func openRepo() (*gitcore.Repository, error) {
	return gitcore.Open(".")
}

func firstLine(msg string) string {
	for i, r := range msg {
		if r == '\n' {
			return msg[:i]
		}
	}
	return msg
}
