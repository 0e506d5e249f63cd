package gitcore

import (
	"os"
	"path/filepath"
	"sort"
)

// Walk lists every regular file under the repository working tree,
// excluding the metadata root itself, and returns repo-relative
// forward-slash paths in sorted order.
func (r *Repository) Walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(r.RootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != r.RootDir && d.Name() == MetaDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == MetaDirName {
			return nil
		}
		rel, err := r.NormalizePath(path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "walking working tree")
	}
	sort.Strings(paths)
	return paths, nil
}

// HashWorkingFile reads relPath from the working tree and stores it as a
// blob, returning its hash without touching the index.
func (r *Repository) HashWorkingFile(relPath string) (Hash, error) {
	content, err := os.ReadFile(r.AbsPath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", newErr(ErrPathNotFound, nil, "path %q does not exist", relPath)
		}
		return "", newErr(ErrIOFailure, err, "reading %s", relPath)
	}
	return r.Objects.PutBlob(content)
}

// WorkingFileExists reports whether relPath exists as a regular file in the
// working tree.
func (r *Repository) WorkingFileExists(relPath string) bool {
	info, err := os.Stat(r.AbsPath(relPath))
	return err == nil && !info.IsDir()
}

// MaterializeTree rewrites the working tree (excluding metadata) to exactly
// match target: files present in target are written with their blob
// content, and every on-disk file whose path is not in target is removed —
// not just paths tracked by current, but genuinely untracked files too, per
// spec.md §4.6 ("delete every working-tree file... whose path is not in the
// target tree"). current is retained as a parameter for callers that already
// have it on hand, but deletion is driven by the actual working-tree walk.
// Any directories left empty by deletion are pruned.
func (r *Repository) MaterializeTree(current, target TreeMap) error {
	onDisk, err := r.Walk()
	if err != nil {
		return err
	}
	for _, path := range onDisk {
		if _, stillWanted := target[path]; stillWanted {
			continue
		}
		if err := os.Remove(r.AbsPath(path)); err != nil && !os.IsNotExist(err) {
			return newErr(ErrIOFailure, err, "removing %s", path)
		}
	}

	for path, hash := range target {
		content, err := r.Objects.GetBlob(hash)
		if err != nil {
			return err
		}
		abs := r.AbsPath(path)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return newErr(ErrIOFailure, err, "creating directory for %s", path)
		}
		if err := os.WriteFile(abs, content, 0o644); err != nil {
			return newErr(ErrIOFailure, err, "writing %s", path)
		}
	}

	pruneEmptyDirs(r.RootDir, r.RootDir)
	return nil
}

// writeFileCreatingDirs writes content to abs, creating parent directories
// as needed.
func writeFileCreatingDirs(abs string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return newErr(ErrIOFailure, err, "creating directory for %s", abs)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return newErr(ErrIOFailure, err, "writing %s", abs)
	}
	return nil
}

// pruneEmptyDirs removes directories left empty after file deletion,
// stopping at root and never descending into the metadata root.
func pruneEmptyDirs(root, dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	empty := true
	for _, e := range entries {
		if e.Name() == MetaDirName {
			empty = false
			continue
		}
		if e.IsDir() {
			if pruneEmptyDirs(root, filepath.Join(dir, e.Name())) {
				continue
			}
			empty = false
			continue
		}
		empty = false
	}
	if empty && dir != root {
		_ = os.Remove(dir)
		return true
	}
	return false
}
