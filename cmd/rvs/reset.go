package main

import (
	"fmt"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runReset(repo *gitcore.Repository, args []string) int {
	mode := gitcore.ResetMixed
	target := "HEAD"
	var paths []string
	targetGiven := false

	for _, arg := range args {
		switch arg {
		case "--soft":
			mode = gitcore.ResetSoft
		case "--mixed":
			mode = gitcore.ResetMixed
		case "--hard":
			mode = gitcore.ResetHard
		case "--keep":
			mode = gitcore.ResetKeep
		default:
			if !targetGiven {
				target = arg
				targetGiven = true
			} else {
				paths = append(paths, arg)
			}
		}
	}

	if len(paths) > 0 {
		if err := repo.ResetPaths(target, paths); err != nil {
			return fail(err)
		}
		return 0
	}

	hash, err := repo.Reset(target, mode)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("HEAD is now at %s\n", hash.Short())
	return 0
}
