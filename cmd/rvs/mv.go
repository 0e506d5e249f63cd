package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runMv(repo *gitcore.Repository, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rvs mv <source> <destination>")
		return 1
	}

	srcRel, err := repo.NormalizePath(args[0])
	if err != nil {
		return fail(err)
	}
	dstRel, err := repo.NormalizePath(args[1])
	if err != nil {
		return fail(err)
	}

	index, err := repo.Idx.Load()
	if err != nil {
		return fail(err)
	}
	hash, ok := index[srcRel]
	if !ok {
		return fail(fmt.Errorf("pathspec %q is not tracked", args[0]))
	}
	if _, exists := index[dstRel]; exists {
		return fail(fmt.Errorf("destination %q already tracked", args[1]))
	}

	if err := os.MkdirAll(repo.AbsPath(dirOf(dstRel)), 0o755); err != nil {
		return fail(err)
	}
	if err := os.Rename(repo.AbsPath(srcRel), repo.AbsPath(dstRel)); err != nil {
		return fail(err)
	}

	delete(index, srcRel)
	index[dstRel] = hash
	if err := repo.Idx.Save(index); err != nil {
		return fail(err)
	}
	fmt.Printf("rename '%s' -> '%s'\n", srcRel, dstRel)
	return 0
}

func dirOf(relPath string) string {
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '/' {
			return relPath[:i]
		}
	}
	return "."
}
