package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/progress"
)

// largeTreeThreshold is the working-tree file count above which add/checkout
// show a progress spinner instead of running silently.
const largeTreeThreshold = 200

func runAdd(repo *gitcore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rvs add <path>... | .")
		return 1
	}

	var spinner *progress.Spinner
	if working, err := repo.Walk(); err == nil && len(working) > largeTreeThreshold {
		spinner = progress.New("adding files")
		spinner.Start()
	}

	err := repo.Add(args)

	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fail(err)
	}
	return 0
}
