package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runStash(repo *gitcore.Repository, args []string) int {
	if len(args) == 0 {
		return stashSave(repo, "")
	}

	switch args[0] {
	case "save", "push":
		message := ""
		if len(args) > 1 {
			message = args[1]
		}
		return stashSave(repo, message)
	case "list":
		return stashList(repo)
	case "show":
		return stashShow(repo, args[1:])
	case "pop":
		return stashPopOrApply(repo, args[1:], true)
	case "apply":
		return stashPopOrApply(repo, args[1:], false)
	case "drop":
		return stashDrop(repo, args[1:])
	default:
		fmt.Fprintln(os.Stderr, "usage: rvs stash [save|list|show|pop|apply|drop] [<message>|<index>]")
		return 1
	}
}

func stashSave(repo *gitcore.Repository, message string) int {
	rec, err := repo.StashSave(message)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Saved working directory state: %s\n", rec.Message)
	return 0
}

func stashList(repo *gitcore.Repository) int {
	records, err := repo.StashList()
	if err != nil {
		return fail(err)
	}
	for i, rec := range records {
		fmt.Printf("stash@{%d}: %s\n", i, rec.Message)
	}
	return 0
}

func stashShow(repo *gitcore.Repository, args []string) int {
	idx, err := stashIndexArg(args)
	if err != nil {
		return fail(err)
	}
	records, err := repo.StashList()
	if err != nil {
		return fail(err)
	}
	if idx < 0 || idx >= len(records) {
		return fail(fmt.Errorf("no stash entry at index %d", idx))
	}
	rec := records[idx]
	entries, err := gitcore.TreeDiff(rec.Index, rec.WorkingTree)
	if err != nil {
		return fail(err)
	}
	for _, e := range entries {
		fmt.Printf(" %s\n", e.Path)
	}
	return 0
}

func stashPopOrApply(repo *gitcore.Repository, args []string, pop bool) int {
	idx, err := stashIndexArg(args)
	if err != nil {
		return fail(err)
	}
	if pop {
		err = repo.StashPop(idx)
	} else {
		err = repo.StashApply(idx)
	}
	if err != nil {
		return fail(err)
	}
	return 0
}

func stashDrop(repo *gitcore.Repository, args []string) int {
	idx, err := stashIndexArg(args)
	if err != nil {
		return fail(err)
	}
	if err := repo.StashDrop(idx); err != nil {
		return fail(err)
	}
	return 0
}

func stashIndexArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return strconv.Atoi(args[0])
}
