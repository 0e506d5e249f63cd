package main

import (
	"fmt"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/termcolor"
)

const diffContextLines = 3

// runDiff implements `rvs diff` (worktree vs index), `rvs diff --staged`
// (index vs HEAD), and `rvs diff <commit> <commit>` (tree vs tree).
func runDiff(repo *gitcore.Repository, args []string, cw *termcolor.Writer) int {
	staged := false
	var refs []string
	for _, arg := range args {
		switch arg {
		case "--staged", "--cached":
			staged = true
		default:
			refs = append(refs, arg)
		}
	}

	var oldTree, newTree gitcore.TreeMap
	var err error

	switch {
	case len(refs) == 2:
		_, oldTree, err = repo.ResolveTreeish(refs[0])
		if err != nil {
			return fail(err)
		}
		_, newTree, err = repo.ResolveTreeish(refs[1])
		if err != nil {
			return fail(err)
		}
	case staged:
		head, err2 := repo.HeadCommit()
		if err2 != nil {
			return fail(err2)
		}
		oldTree, err = repo.TreeOfCommit(head)
		if err != nil {
			return fail(err)
		}
		newTree, err = repo.Idx.Load()
		if err != nil {
			return fail(err)
		}
	default:
		oldTree, err = repo.Idx.Load()
		if err != nil {
			return fail(err)
		}
		newTree = gitcore.TreeMap{}
		for path := range oldTree {
			if repo.WorkingFileExists(path) {
				hash, herr := repo.HashWorkingFile(path)
				if herr != nil {
					return fail(herr)
				}
				newTree[path] = hash
			}
		}
	}

	entries, err := gitcore.TreeDiff(oldTree, newTree)
	if err != nil {
		return fail(err)
	}
	if len(entries) == 0 {
		return 0
	}

	for _, e := range entries {
		if e.IsBinary {
			fmt.Printf("Binary files differ: %s\n", e.Path)
			continue
		}
		fd, err := gitcore.ComputeFileDiff(repo, e.OldHash, e.NewHash, e.Path, diffContextLines)
		if err != nil {
			return fail(err)
		}
		printFileDiff(fd, cw)
	}
	return 0
}

func printFileDiff(fd *gitcore.FileDiff, cw *termcolor.Writer) {
	fmt.Printf("diff --rvs a/%s b/%s\n", fd.Path, fd.Path)
	if fd.IsBinary {
		fmt.Println("Binary files differ")
		return
	}
	for _, h := range fd.Hunks {
		fmt.Printf("%s\n", cw.Cyan(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)))
		for _, line := range h.Lines {
			switch line.Type {
			case gitcore.LineTypeAddition:
				fmt.Println(cw.Green("+" + line.Content))
			case gitcore.LineTypeDeletion:
				fmt.Println(cw.Red("-" + line.Content))
			default:
				fmt.Println(" " + line.Content)
			}
		}
	}
}
