package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/yuin/goldmark"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/termcolor"
)

// runShow implements `rvs show [--html] <object>`. A commit shows its
// metadata and patch against its first parent; a tree lists its entries;
// a blob prints its raw content. --html renders a commit's message as
// HTML via goldmark instead of plain text.
func runShow(repo *gitcore.Repository, args []string, cw *termcolor.Writer) int {
	html := false
	var target string
	for _, arg := range args {
		switch arg {
		case "--html":
			html = true
		default:
			target = arg
		}
	}
	if target == "" {
		target = "HEAD"
	}

	hash, err := resolveObject(repo, target)
	if err != nil {
		return fail(err)
	}

	kind, payload, err := repo.Objects.Get(hash)
	if err != nil {
		return fail(err)
	}

	switch kind {
	case gitcore.KindBlob:
		os.Stdout.Write(payload)
		return 0
	case gitcore.KindTree:
		return showTree(payload)
	case gitcore.KindCommit:
		return showCommit(repo, hash, html, cw)
	default:
		return fail(fmt.Errorf("unknown object kind %q", kind))
	}
}

func resolveObject(repo *gitcore.Repository, target string) (gitcore.Hash, error) {
	if hash, err := repo.ResolveCommitish(target); err == nil && hash != "" {
		return hash, nil
	}
	return repo.Objects.ResolvePrefix(target, "")
}

func showTree(payload []byte) int {
	tree, err := gitcore.DecodeTree(payload)
	if err != nil {
		return fail(err)
	}
	var paths []string
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Printf("blob %s %s\n", tree[p], p)
	}
	return 0
}

func showCommit(repo *gitcore.Repository, hash gitcore.Hash, html bool, cw *termcolor.Writer) int {
	c, err := repo.Objects.GetCommit(hash)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%s %s\n", cw.Yellow("commit"), hash)
	fmt.Printf("Author: %s\n", c.Author)
	fmt.Printf("Date:   %s\n", c.Date)
	fmt.Println()

	if html {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(c.Message), &buf); err != nil {
			return fail(err)
		}
		fmt.Println(buf.String())
	} else {
		fmt.Printf("    %s\n", c.Message)
	}
	fmt.Println()

	if len(c.Parents) == 0 {
		return 0
	}
	oldTree, err := repo.TreeOfCommit(c.Parents[0])
	if err != nil {
		return fail(err)
	}
	newTree, err := repo.Objects.GetTree(c.Tree)
	if err != nil {
		return fail(err)
	}
	entries, err := gitcore.TreeDiff(oldTree, newTree)
	if err != nil {
		return fail(err)
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
