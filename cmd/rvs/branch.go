package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/termcolor"
)

func runBranch(repo *gitcore.Repository, args []string, cw *termcolor.Writer) int {
	var deleteName string
	var newName string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--list" || args[i] == "-l":
			// default behavior
		case (args[i] == "-d" || args[i] == "-D") && i+1 < len(args):
			i++
			deleteName = args[i]
		default:
			newName = args[i]
		}
	}

	if deleteName != "" {
		if err := repo.Refs.DeleteBranch(deleteName); err != nil {
			return fail(err)
		}
		fmt.Printf("Deleted branch %s\n", deleteName)
		return 0
	}

	if newName != "" {
		head, err := repo.HeadCommit()
		if err != nil {
			return fail(err)
		}
		if head == "" {
			fmt.Fprintln(os.Stderr, "fatal: cannot create a branch with no commits yet")
			return 1
		}
		if repo.Refs.BranchExists(newName) {
			return fail(fmt.Errorf("branch %q already exists", newName))
		}
		if err := repo.Refs.SetBranch(newName, head); err != nil {
			return fail(err)
		}
		return 0
	}

	return listBranches(repo, cw)
}

func listBranches(repo *gitcore.Repository, cw *termcolor.Writer) int {
	names, err := repo.Refs.ListBranches()
	if err != nil {
		return fail(err)
	}
	current, err := repo.CurrentBranch()
	if err != nil {
		return fail(err)
	}
	for _, name := range names {
		if name == current {
			fmt.Printf("* %s\n", cw.Green(name))
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return 0
}
