package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/termcolor"
)

func runLog(repo *gitcore.Repository, args []string, cw *termcolor.Writer) int {
	oneline := false
	graph := false
	limit := -1
	start := "HEAD"

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--oneline":
			oneline = true
		case args[i] == "--graph":
			graph = true
		case args[i] == "-n" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fail(fmt.Errorf("invalid -n value %q", args[i]))
			}
			limit = n
		default:
			start = args[i]
		}
	}

	head, err := repo.ResolveCommitish(start)
	if err != nil {
		return fail(err)
	}
	if head == "" {
		fmt.Println("fatal: your current branch does not have any commits yet")
		return 1
	}

	if graph {
		return runLogGraph(repo, head, limit, cw)
	}
	return runLogLinear(repo, head, oneline, limit, cw)
}

func runLogLinear(repo *gitcore.Repository, head gitcore.Hash, oneline bool, limit int, cw *termcolor.Writer) int {
	cur := head
	count := 0
	for cur != "" {
		if limit >= 0 && count >= limit {
			break
		}
		c, err := repo.Objects.GetCommit(cur)
		if err != nil {
			return fail(err)
		}
		printCommit(cur, c, oneline, cw)
		count++
		if len(c.Parents) == 0 {
			break
		}
		cur = c.Parents[0]
	}
	return 0
}

// runLogGraph walks the full ancestry graph breadth-first from head,
// visiting every parent (not just the first), and renders a pterm-styled
// tree: merge commits fan out to all of their parents.
func runLogGraph(repo *gitcore.Repository, head gitcore.Hash, limit int, cw *termcolor.Writer) int {
	seen := make(map[gitcore.Hash]bool)
	queue := []gitcore.Hash{head}
	count := 0

	var root pterm.TreeNode
	nodes := make(map[gitcore.Hash]*pterm.TreeNode)

	for len(queue) > 0 {
		if limit >= 0 && count >= limit {
			break
		}
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		c, err := repo.Objects.GetCommit(cur)
		if err != nil {
			return fail(err)
		}
		label := fmt.Sprintf("%s %s", cw.Yellow(cur.Short()), firstLine(c.Message))
		node := &pterm.TreeNode{Text: label}
		nodes[cur] = node
		if count == 0 {
			root = *node
		}
		count++
		for _, p := range c.Parents {
			if !seen[p] {
				queue = append(queue, p)
			}
		}
	}

	if root.Text == "" {
		fmt.Println("fatal: no commits to graph")
		return 1
	}

	// Rebuild parent/child edges now that every node exists.
	for hash, node := range nodes {
		c, err := repo.Objects.GetCommit(hash)
		if err != nil {
			return fail(err)
		}
		for _, p := range c.Parents {
			if child, ok := nodes[p]; ok && hash != head {
				node.Children = append(node.Children, *child)
			}
		}
	}

	pterm.DefaultTree.WithRoot(*nodes[head]).Render()
	return 0
}

func printCommit(hash gitcore.Hash, c *gitcore.Commit, oneline bool, cw *termcolor.Writer) {
	if oneline {
		fmt.Printf("%s %s\n", cw.Yellow(hash.Short()), firstLine(c.Message))
		return
	}
	fmt.Printf("%s %s\n", cw.Yellow("commit"), hash)
	if len(c.Parents) > 1 {
		merge := ""
		for i, p := range c.Parents[1:] {
			if i > 0 {
				merge += " "
			}
			merge += p.Short()
		}
		fmt.Printf("Merge: %s\n", merge)
	}
	fmt.Printf("Author: %s\n", c.Author)
	fmt.Printf("Date:   %s\n", c.Date)
	fmt.Println()
	fmt.Printf("    %s\n", c.Message)
	fmt.Println()
}
