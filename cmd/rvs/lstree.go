package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rybkr/rvs/internal/gitcore"
)

// runLsTree implements `rvs ls-tree <tree-ish> [--name-only]`. -r is
// implicit: the engine's tree representation is already flat (spec.md §1).
func runLsTree(repo *gitcore.Repository, args []string) int {
	nameOnly := false
	var treeish string

	for _, arg := range args {
		switch arg {
		case "--name-only", "-r":
			if arg == "--name-only" {
				nameOnly = true
			}
		default:
			treeish = arg
		}
	}

	if treeish == "" {
		fmt.Fprintln(os.Stderr, "usage: rvs ls-tree <tree-ish> [--name-only]")
		return 1
	}

	_, tree, err := repo.ResolveTreeish(treeish)
	if err != nil {
		return fail(err)
	}

	var paths []string
	for path := range tree {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if nameOnly {
			fmt.Println(path)
			continue
		}
		fmt.Printf("blob %s %s\n", tree[path], path)
	}
	return 0
}
