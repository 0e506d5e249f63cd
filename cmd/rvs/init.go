package main

import (
	"fmt"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runInit(args []string) int {
	path := "."
	branch := "main"
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-b" && i+1 < len(args):
			i++
			branch = args[i]
		default:
			path = args[i]
		}
	}

	repo, err := gitcore.Init(path, branch)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Initialized empty rvs repository in %s\n", repo.MainMetaDir)
	return 0
}
