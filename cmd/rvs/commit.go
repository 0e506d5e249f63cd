package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runCommit(repo *gitcore.Repository, args []string) int {
	var message string
	for i := 0; i < len(args); i++ {
		if args[i] == "-m" && i+1 < len(args) {
			i++
			message = args[i]
		}
	}
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: rvs commit -m <message>")
		return 1
	}

	_, stats, created, err := repo.Commit(message, resolveAuthor())
	if err != nil {
		return fail(err)
	}
	if !created {
		fmt.Println("nothing to commit, working tree clean")
		return 0
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return fail(err)
	}
	where := branch
	if where == "" {
		where = "detached HEAD"
	}

	newHead, err := repo.HeadCommit()
	if err != nil {
		return fail(err)
	}

	rootNote := ""
	if stats.RootCommit {
		rootNote = " (root-commit)"
	}
	fmt.Printf("[%s%s %s] %s\n", where, rootNote, newHead.Short(), firstLine(message))
	fmt.Printf(" %d file(s) changed, %d insertion(s)(+), %d deletion(s)(-)\n",
		stats.FilesChanged, stats.Insertions, stats.Deletions)
	return 0
}
