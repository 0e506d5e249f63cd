package main

import (
	"fmt"
	"os"

	"github.com/rybkr/rvs/internal/gitcore"
)

func runRm(repo *gitcore.Repository, args []string) int {
	cached := false
	recursive := false
	force := false
	var rawPaths []string

	for _, arg := range args {
		switch arg {
		case "--cached":
			cached = true
		case "-r":
			recursive = true
		case "-f", "--force":
			force = true
		default:
			rawPaths = append(rawPaths, arg)
		}
	}

	if len(rawPaths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rvs rm [--cached] [-r] [-f] <path>...")
		return 1
	}

	index, err := repo.Idx.Load()
	if err != nil {
		return fail(err)
	}

	var toRemove []string
	for _, raw := range rawPaths {
		rel, err := repo.NormalizePath(raw)
		if err != nil {
			return fail(err)
		}
		matches := matchingPaths(index, rel, recursive)
		if len(matches) == 0 {
			return fail(fmt.Errorf("pathspec %q did not match any files", raw))
		}
		toRemove = append(toRemove, matches...)
	}

	if !force && !cached {
		for _, rel := range toRemove {
			if !repo.WorkingFileExists(rel) {
				continue
			}
			actual, err := repo.HashWorkingFile(rel)
			if err != nil {
				return fail(err)
			}
			if actual != index[rel] {
				return fail(fmt.Errorf("%s has local modifications; use -f to force removal", rel))
			}
		}
	}

	for _, rel := range toRemove {
		delete(index, rel)
		if !cached {
			if err := os.Remove(repo.AbsPath(rel)); err != nil && !os.IsNotExist(err) {
				return fail(err)
			}
		}
		fmt.Printf("rm '%s'\n", rel)
	}

	if err := repo.Idx.Save(index); err != nil {
		return fail(err)
	}
	return 0
}

// matchingPaths returns every indexed path equal to rel, or (when
// recursive) every indexed path under the directory rel.
func matchingPaths(index gitcore.TreeMap, rel string, recursive bool) []string {
	var out []string
	if _, ok := index[rel]; ok {
		out = append(out, rel)
	}
	if recursive {
		prefix := rel + "/"
		for path := range index {
			if len(path) > len(prefix) && path[:len(prefix)] == prefix {
				out = append(out, path)
			}
		}
	}
	return out
}
