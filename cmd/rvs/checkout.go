package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
	"github.com/rybkr/rvs/internal/progress"
)

// runCheckoutWithSpinner materializes the target via repo.Checkout, showing
// a progress spinner when the working tree is large enough that the
// materialization step takes noticeable time.
func runCheckoutWithSpinner(repo *gitcore.Repository, target string, opts gitcore.CheckoutOptions) (*gitcore.CheckoutResult, error) {
	var spinner *progress.Spinner
	if working, err := repo.Walk(); err == nil && len(working) > largeTreeThreshold {
		spinner = progress.New(fmt.Sprintf("checking out %s", target))
		spinner.Start()
	}

	result, err := repo.Checkout(target, opts)

	if spinner != nil {
		spinner.Stop()
	}
	return result, err
}

func runCheckout(repo *gitcore.Repository, args []string) int {
	var opts gitcore.CheckoutOptions
	var target string
	var paths []string
	pastDashDash := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case pastDashDash:
			paths = append(paths, arg)
		case arg == "--":
			pastDashDash = true
		case arg == "--detach":
			opts.Detach = true
		case arg == "-f" || arg == "--force":
			opts.Force = true
		case arg == "-b" && i+1 < len(args):
			i++
			opts.Create = true
			target = args[i]
		case arg == "-B" && i+1 < len(args):
			i++
			opts.CreateForce = true
			target = args[i]
		case target == "":
			target = arg
		default:
			paths = append(paths, arg)
		}
	}

	if len(paths) > 0 {
		if target == "" {
			fmt.Fprintln(os.Stderr, "usage: rvs checkout <tree-ish> -- <path>...")
			return 1
		}
		if err := repo.CheckoutPaths(target, paths); err != nil {
			return fail(err)
		}
		return 0
	}

	if target == "" {
		fmt.Fprintln(os.Stderr, "usage: rvs checkout <branch|commit> [-b <new-branch>] [--detach]")
		return 1
	}

	result, err := runCheckoutWithSpinner(repo, target, opts)
	if err != nil {
		return fail(err)
	}

	switch {
	case opts.Create || opts.CreateForce:
		fmt.Printf("Switched to a new branch '%s'\n", result.NewBranch)
	case result.Detached:
		fmt.Printf("Note: switching to '%s'.\n", target)
		fmt.Printf("HEAD is now at %s\n", result.CommitHash.Short())
	default:
		fmt.Printf("Switched to branch '%s'\n", result.NewBranch)
	}
	return 0
}

func runSwitch(repo *gitcore.Repository, args []string) int {
	var opts gitcore.CheckoutOptions
	var target string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--detach":
			opts.Detach = true
		case arg == "-f" || arg == "--force":
			opts.Force = true
		case arg == "-c" && i+1 < len(args):
			i++
			opts.Create = true
			target = args[i]
		case arg == "-C" && i+1 < len(args):
			i++
			opts.CreateForce = true
			target = args[i]
		case target == "":
			target = arg
		}
	}

	if target == "" {
		fmt.Fprintln(os.Stderr, "usage: rvs switch <branch> [-c <new-branch>] [--detach]")
		return 1
	}

	result, err := runCheckoutWithSpinner(repo, target, opts)
	if err != nil {
		return fail(err)
	}

	switch {
	case opts.Create || opts.CreateForce:
		fmt.Printf("Switched to a new branch '%s'\n", result.NewBranch)
	case result.Detached:
		fmt.Printf("HEAD is now at %s\n", result.CommitHash.Short())
	default:
		fmt.Printf("Switched to branch '%s'\n", result.NewBranch)
	}
	return 0
}
