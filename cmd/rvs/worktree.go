package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runWorktree(repo *gitcore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rvs worktree [add|list|remove|prune|lock|unlock|move] ...")
		return 1
	}
	wm := gitcore.NewWorktreeManager(repo)

	switch args[0] {
	case "add":
		return worktreeAdd(wm, args[1:])
	case "list":
		return worktreeList(wm)
	case "remove":
		if len(args) < 2 {
			return fail(fmt.Errorf("usage: rvs worktree remove <name>"))
		}
		if err := wm.Remove(args[1]); err != nil {
			return fail(err)
		}
		return 0
	case "prune":
		pruned, err := wm.Prune()
		if err != nil {
			return fail(err)
		}
		for _, name := range pruned {
			fmt.Printf("Removing worktree %s\n", name)
		}
		return 0
	case "lock":
		if len(args) < 2 {
			return fail(fmt.Errorf("usage: rvs worktree lock <name>"))
		}
		if err := wm.Lock(args[1]); err != nil {
			return fail(err)
		}
		return 0
	case "unlock":
		if len(args) < 2 {
			return fail(fmt.Errorf("usage: rvs worktree unlock <name>"))
		}
		if err := wm.Unlock(args[1]); err != nil {
			return fail(err)
		}
		return 0
	case "move":
		if len(args) < 3 {
			return fail(fmt.Errorf("usage: rvs worktree move <name> <new-path>"))
		}
		if err := wm.Move(args[1], args[2]); err != nil {
			return fail(err)
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown worktree subcommand %q\n", args[0])
		return 1
	}
}

func worktreeAdd(wm *gitcore.WorktreeManager, args []string) int {
	if len(args) < 2 {
		return fail(fmt.Errorf("usage: rvs worktree add <path> <branch>"))
	}
	path := args[0]
	target := args[1]
	name := filepath.Base(path)

	info, err := wm.Add(path, name, target)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Preparing worktree (%s) at %s\n", info.Branch, info.Path)
	return 0
}

func worktreeList(wm *gitcore.WorktreeManager) int {
	entries, err := wm.List()
	if err != nil {
		return fail(err)
	}

	rows := [][]string{{"Path", "Branch", "HEAD", "Locked"}}
	for _, e := range entries {
		branch := e.Branch
		if e.Detached {
			branch = "(detached)"
		}
		locked := ""
		if e.Locked {
			locked = "locked"
		}
		rows = append(rows, []string{e.Path, branch, e.Head.Short(), locked})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return fail(err)
	}
	return 0
}
