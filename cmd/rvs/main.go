package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/cli"
	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/termcolor"
)

const version = "0.1.0"

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])
	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	if len(args) == 1 && args[0] == "--version" {
		fmt.Printf("rvs version %s\n", version)
		os.Exit(0)
	}

	app := cli.NewApp("rvs", version)
	registerCommands(app, cw)

	os.Exit(app.Run(args, cw))
}

// withRepo opens the repository containing the current directory before
// handing off to fn, printing the engine's single failure shape on error.
func withRepo(fn func(repo *gitcore.Repository, args []string) int) func([]string) int {
	return func(args []string) int {
		repo, err := openRepo()
		if err != nil {
			return fail(err)
		}
		return fn(repo, args)
	}
}

func registerCommands(app *cli.App, cw *termcolor.Writer) {
	app.Register(&cli.Command{
		Name:    "init",
		Summary: "Create an empty repository",
		Usage:   "rvs init [-b <branch>] [<path>]",
		Run:     runInit,
	})
	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage file contents into the index",
		Usage:     "rvs add <path>... | .",
		NeedsRepo: true,
		Run:       withRepo(runAdd),
	})
	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record staged changes as a new commit",
		Usage:     "rvs commit -m <message>",
		NeedsRepo: true,
		Run:       withRepo(runCommit),
	})
	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show the working tree status",
		Usage:     "rvs status [-s|--porcelain] [--watch]",
		NeedsRepo: true,
		Run:       withRepo(func(r *gitcore.Repository, a []string) int { return runStatus(r, a, cw) }),
	})
	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Show commit history",
		Usage:     "rvs log [-n <count>] [--oneline] [--graph] [<commit-ish>]",
		NeedsRepo: true,
		Run:       withRepo(func(r *gitcore.Repository, a []string) int { return runLog(r, a, cw) }),
	})
	app.Register(&cli.Command{
		Name:      "branch",
		Summary:   "List, create, or delete branches",
		Usage:     "rvs branch [<name>] [-d|-D <name>] [--list]",
		NeedsRepo: true,
		Run:       withRepo(func(r *gitcore.Repository, a []string) int { return runBranch(r, a, cw) }),
	})
	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Switch branches or restore working tree files",
		Usage:     "rvs checkout <branch|commit> [-b|-B <name>] [--detach] [-- <path>...]",
		NeedsRepo: true,
		Run:       withRepo(runCheckout),
	})
	app.Register(&cli.Command{
		Name:      "switch",
		Summary:   "Switch branches",
		Usage:     "rvs switch <branch> [-c|-C <name>] [--detach]",
		NeedsRepo: true,
		Run:       withRepo(runSwitch),
	})
	app.Register(&cli.Command{
		Name:      "merge",
		Summary:   "Join two development histories together",
		Usage:     "rvs merge <branch> [--no-ff|--ff-only] [--squash] [--no-commit]",
		NeedsRepo: true,
		Run:       withRepo(runMerge),
	})
	app.Register(&cli.Command{
		Name:      "rebase",
		Summary:   "Replay commits onto another base",
		Usage:     "rvs rebase <upstream>",
		NeedsRepo: true,
		Run:       withRepo(runRebase),
	})
	app.Register(&cli.Command{
		Name:      "restore",
		Summary:   "Restore working tree or staged files",
		Usage:     "rvs restore [--source <tree-ish>] [--staged] [--worktree] <path>...",
		NeedsRepo: true,
		Run:       withRepo(runRestore),
	})
	app.Register(&cli.Command{
		Name:      "rm",
		Summary:   "Remove files from the working tree and index",
		Usage:     "rvs rm [--cached] [-r] [-f] <path>...",
		NeedsRepo: true,
		Run:       withRepo(runRm),
	})
	app.Register(&cli.Command{
		Name:      "mv",
		Summary:   "Move or rename a tracked file",
		Usage:     "rvs mv <source> <destination>",
		NeedsRepo: true,
		Run:       withRepo(runMv),
	})
	app.Register(&cli.Command{
		Name:      "ls-files",
		Summary:   "List tracked, modified, deleted, or untracked files",
		Usage:     "rvs ls-files [--cached|--modified|--deleted|--others]",
		NeedsRepo: true,
		Run:       withRepo(runLsFiles),
	})
	app.Register(&cli.Command{
		Name:      "ls-tree",
		Summary:   "List the contents of a tree",
		Usage:     "rvs ls-tree <tree-ish> [--name-only]",
		NeedsRepo: true,
		Run:       withRepo(runLsTree),
	})
	app.Register(&cli.Command{
		Name:      "diff",
		Summary:   "Show changes between commits, the index, and the working tree",
		Usage:     "rvs diff [--staged] [<commit-ish> <commit-ish>]",
		NeedsRepo: true,
		Run:       withRepo(func(r *gitcore.Repository, a []string) int { return runDiff(r, a, cw) }),
	})
	app.Register(&cli.Command{
		Name:      "diff-tree",
		Summary:   "Show a name-status summary between two trees",
		Usage:     "rvs diff-tree <tree-ish> [<tree-ish>]",
		NeedsRepo: true,
		Run:       withRepo(runDiffTree),
	})
	app.Register(&cli.Command{
		Name:      "show",
		Summary:   "Show a commit, tree, or blob",
		Usage:     "rvs show [--html] <object>",
		NeedsRepo: true,
		Run:       withRepo(func(r *gitcore.Repository, a []string) int { return runShow(r, a, cw) }),
	})
	app.Register(&cli.Command{
		Name:      "reset",
		Summary:   "Reset the current branch to a commit",
		Usage:     "rvs reset [--soft|--mixed|--hard|--keep] [<commit-ish>] [-- <path>...]",
		NeedsRepo: true,
		Run:       withRepo(runReset),
	})
	app.Register(&cli.Command{
		Name:      "stash",
		Summary:   "Stash changes in a dirty working directory",
		Usage:     "rvs stash [save|list|show|pop|apply|drop] [<message>|<index>]",
		NeedsRepo: true,
		Run:       withRepo(runStash),
	})
	app.Register(&cli.Command{
		Name:      "worktree",
		Summary:   "Manage multiple working trees",
		Usage:     "rvs worktree [add|list|remove|prune|lock|unlock|move] ...",
		NeedsRepo: true,
		Run:       withRepo(runWorktree),
	})
}
