package main

import (
	"fmt"
	"sort"

	"github.com/rybkr/rvs/internal/gitcore"
)

// runLsFiles implements `rvs ls-files [--cached|--modified|--deleted|
// --others|--ignored] [--exclude <pattern>]...`. With no filter it lists
// the full index (--cached's default). --ignored lists untracked paths
// matching the --exclude patterns; with no --exclude it lists nothing,
// since the engine has no implicit ignore-file discovery (spec.md §1's
// non-goal).
func runLsFiles(repo *gitcore.Repository, args []string) int {
	mode := "cached"
	var excludes []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--cached" || args[i] == "-c":
			mode = "cached"
		case args[i] == "--modified" || args[i] == "-m":
			mode = "modified"
		case args[i] == "--deleted" || args[i] == "-d":
			mode = "deleted"
		case args[i] == "--others" || args[i] == "-o":
			mode = "others"
		case args[i] == "--ignored":
			mode = "ignored"
		case args[i] == "--exclude" && i+1 < len(args):
			i++
			excludes = append(excludes, args[i])
		}
	}

	index, err := repo.Idx.Load()
	if err != nil {
		return fail(err)
	}

	var paths []string
	switch mode {
	case "cached":
		for path := range index {
			paths = append(paths, path)
		}
	case "modified":
		for path, hash := range index {
			if !repo.WorkingFileExists(path) {
				continue
			}
			actual, err := repo.HashWorkingFile(path)
			if err != nil {
				return fail(err)
			}
			if actual != hash {
				paths = append(paths, path)
			}
		}
	case "deleted":
		for path := range index {
			if !repo.WorkingFileExists(path) {
				paths = append(paths, path)
			}
		}
	case "others":
		working, err := repo.Walk()
		if err != nil {
			return fail(err)
		}
		for _, path := range working {
			if _, tracked := index[path]; !tracked {
				paths = append(paths, path)
			}
		}
	case "ignored":
		matcher := gitcore.NewPatternMatcher(excludes)
		working, err := repo.Walk()
		if err != nil {
			return fail(err)
		}
		for _, path := range working {
			if _, tracked := index[path]; tracked {
				continue
			}
			if matcher.Match(path, false) {
				paths = append(paths, path)
			}
		}
	}

	sort.Strings(paths)
	for _, path := range paths {
		fmt.Println(path)
	}
	return 0
}
