package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

// runRestore implements `rvs restore [--source <tree-ish>] [--staged]
// [--worktree] <path>...`. With neither --staged nor --worktree given,
// only the worktree is restored, matching the original implementation's
// default.
func runRestore(repo *gitcore.Repository, args []string) int {
	source := "HEAD"
	staged := false
	worktree := false
	var paths []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--source" && i+1 < len(args):
			i++
			source = args[i]
		case args[i] == "--staged" || args[i] == "-S":
			staged = true
		case args[i] == "--worktree" || args[i] == "-W":
			worktree = true
		case args[i] == "--":
			// no-op separator
		default:
			paths = append(paths, args[i])
		}
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rvs restore [--source <tree-ish>] [--staged] [--worktree] <path>...")
		return 1
	}
	if !staged && !worktree {
		worktree = true
	}

	if staged {
		if err := repo.ResetPaths(source, paths); err != nil {
			return fail(err)
		}
	}
	if worktree {
		if err := repo.CheckoutPaths(source, paths); err != nil {
			return fail(err)
		}
	}
	return 0
}
