package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runRebase(repo *gitcore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rvs rebase <upstream>")
		return 1
	}
	upstream := args[0]

	result, err := repo.Rebase(upstream, resolveAuthor())
	if err != nil {
		return fail(err)
	}

	if result.NoOp {
		fmt.Println("Current branch is up to date.")
		return 0
	}
	fmt.Printf("Successfully rebased and updated HEAD (%d commit(s) replayed onto %s).\n",
		result.Replayed, result.FinalHash.Short())
	return 0
}
