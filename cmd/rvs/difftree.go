package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

// runDiffTree implements `rvs diff-tree <tree-ish> [<tree-ish>]`: a
// name-status summary of the changed paths between two trees, or between
// a commit and its first parent when only one tree-ish is given.
func runDiffTree(repo *gitcore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rvs diff-tree <tree-ish> [<tree-ish>]")
		return 1
	}

	var oldTree, newTree gitcore.TreeMap

	if len(args) >= 2 {
		var err error
		_, oldTree, err = repo.ResolveTreeish(args[0])
		if err != nil {
			return fail(err)
		}
		_, newTree, err = repo.ResolveTreeish(args[1])
		if err != nil {
			return fail(err)
		}
	} else {
		hash, err := repo.ResolveCommitish(args[0])
		if err != nil {
			return fail(err)
		}
		c, err := repo.Objects.GetCommit(hash)
		if err != nil {
			return fail(err)
		}
		newTree, err = repo.Objects.GetTree(c.Tree)
		if err != nil {
			return fail(err)
		}
		if len(c.Parents) > 0 {
			oldTree, err = repo.TreeOfCommit(c.Parents[0])
			if err != nil {
				return fail(err)
			}
		} else {
			oldTree = gitcore.TreeMap{}
		}
	}

	entries, err := gitcore.TreeDiff(oldTree, newTree)
	if err != nil {
		return fail(err)
	}
	for _, e := range entries {
		var code byte
		switch e.Status {
		case gitcore.DiffStatusAdded:
			code = 'A'
		case gitcore.DiffStatusModified:
			code = 'M'
		case gitcore.DiffStatusDeleted:
			code = 'D'
		}
		fmt.Printf("%c\t%s\n", code, e.Path)
	}
	return 0
}
