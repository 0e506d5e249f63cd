package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/termcolor"
	"github.com/rybkr/rvs/internal/watch"
)

func runStatus(repo *gitcore.Repository, args []string, cw *termcolor.Writer) int {
	porcelain := false
	watchMode := false
	for _, arg := range args {
		switch arg {
		case "-s", "--porcelain":
			porcelain = true
		case "--watch":
			watchMode = true
		}
	}

	if watchMode {
		return runStatusWatch(repo, porcelain, cw)
	}

	status, err := gitcore.ComputeWorkingTreeStatus(repo)
	if err != nil {
		return fail(err)
	}
	if porcelain {
		return printPorcelain(status)
	}
	return printLongStatus(repo, status, cw)
}

func runStatusWatch(repo *gitcore.Repository, porcelain bool, cw *termcolor.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := func() {
		status, err := gitcore.ComputeWorkingTreeStatus(repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return
		}
		fmt.Print("\033[H\033[2J")
		if porcelain {
			printPorcelain(status)
		} else {
			printLongStatus(repo, status, cw)
		}
	}
	render()

	w := watch.New(repo, slog.Default(), render)
	if err := w.Run(ctx); err != nil {
		return fail(err)
	}
	return 0
}

func printPorcelain(status *gitcore.WorkingTreeStatus) int {
	for _, f := range status.Files {
		x, y := statusCodes(f)
		fmt.Printf("%c%c %s\n", x, y, f.Path)
	}
	return 0
}

func statusCodes(f gitcore.FileStatus) (x, y byte) {
	x, y = ' ', ' '
	if f.IsUntracked {
		return '?', '?'
	}
	switch f.IndexStatus {
	case "added":
		x = 'A'
	case "modified":
		x = 'M'
	case "deleted":
		x = 'D'
	}
	switch f.WorkStatus {
	case "modified":
		y = 'M'
	case "deleted":
		y = 'D'
	}
	return x, y
}

func printLongStatus(repo *gitcore.Repository, status *gitcore.WorkingTreeStatus, cw *termcolor.Writer) int {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return fail(err)
	}
	if branch != "" {
		fmt.Printf("On branch %s\n", cw.BoldCyan(branch))
	} else {
		head, err := repo.HeadCommit()
		if err != nil {
			return fail(err)
		}
		fmt.Printf("HEAD detached at %s\n", cw.Yellow(head.Short()))
	}

	var staged, unstaged, untracked []gitcore.FileStatus
	for _, f := range status.Files {
		if f.IsUntracked {
			untracked = append(untracked, f)
			continue
		}
		if f.IndexStatus != "" {
			staged = append(staged, f)
		}
		if f.WorkStatus != "" {
			unstaged = append(unstaged, f)
		}
	}

	if len(staged) > 0 {
		printStatusPanel("Changes to be committed", pterm.FgGreen, staged, func(f gitcore.FileStatus) string {
			switch f.IndexStatus {
			case "added":
				return "new file:   " + f.Path
			case "modified":
				return "modified:   " + f.Path
			case "deleted":
				return "deleted:    " + f.Path
			default:
				return f.Path
			}
		})
	}

	if len(unstaged) > 0 {
		printStatusPanel("Changes not staged for commit", pterm.FgRed, unstaged, func(f gitcore.FileStatus) string {
			switch f.WorkStatus {
			case "modified":
				return "modified:   " + f.Path
			case "deleted":
				return "deleted:    " + f.Path
			default:
				return f.Path
			}
		})
	}

	if len(untracked) > 0 {
		printStatusPanel("Untracked files", pterm.FgRed, untracked, func(f gitcore.FileStatus) string {
			return f.Path
		})
	}

	if len(staged) == 0 && len(unstaged) == 0 && len(untracked) == 0 {
		fmt.Println("nothing to commit, working tree clean")
	}

	return 0
}

// printStatusPanel renders one status section (staged/unstaged/untracked)
// as a styled pterm box, with each file on its own line via label.
func printStatusPanel(title string, color pterm.Color, files []gitcore.FileStatus, label func(gitcore.FileStatus) string) {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, color.Sprint(label(f)))
	}
	pterm.DefaultBox.WithTitle(title).Println(strings.Join(lines, "\n"))
}
