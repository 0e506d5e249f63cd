package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runMerge(repo *gitcore.Repository, args []string) int {
	var opts gitcore.MergeOptions
	var theirs string

	for _, arg := range args {
		switch arg {
		case "--no-ff":
			opts.NoFF = true
		case "--ff-only":
			opts.FFOnly = true
		case "--squash":
			opts.Squash = true
		case "--no-commit":
			opts.NoCommit = true
		default:
			theirs = arg
		}
	}

	if theirs == "" {
		fmt.Fprintln(os.Stderr, "usage: rvs merge <branch> [--no-ff|--ff-only] [--squash] [--no-commit]")
		return 1
	}
	opts.Author = resolveAuthor()

	result, err := repo.Merge(theirs, opts)
	if err != nil {
		return fail(err)
	}

	switch {
	case result.AlreadyUpToDate:
		fmt.Println("Already up to date.")
	case len(result.Conflicts) > 0:
		fmt.Println("Automatic merge failed; fix conflicts and then commit the result.")
		for _, path := range result.Conflicts {
			fmt.Printf("CONFLICT: %s\n", path)
		}
		return 1
	case result.FastForward:
		fmt.Printf("Fast-forward to %s\n", result.CommitHash.Short())
	case opts.NoCommit:
		fmt.Println("Automatic merge went well; stopped before committing as requested")
	default:
		fmt.Printf("Merge made by the 'recursive' strategy. (%s)\n", result.CommitHash.Short())
	}
	return 0
}
