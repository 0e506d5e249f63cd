package gitcore

import (
	"bytes"
	"sort"
	"time"
)

// Add stages paths into the Index. "." recurses the repo root and also
// stages deletions (any Index entry absent from the working tree but
// present in the parent tree is dropped). Any other directory recurses but
// never implicitly stages a deletion. A regular file is hashed and upserted.
// A path that does not exist on disk fails with ErrPathNotFound.
func (r *Repository) Add(paths []string) error {
	index, err := r.Idx.Load()
	if err != nil {
		return err
	}

	parentTree, err := r.parentTree()
	if err != nil {
		return err
	}

	for _, raw := range paths {
		if raw == "." {
			if err := r.addRoot(index, parentTree); err != nil {
				return err
			}
			continue
		}
		if err := r.addPath(index, raw); err != nil {
			return err
		}
	}

	return r.Idx.Save(index)
}

func (r *Repository) addRoot(index, parentTree TreeMap) error {
	working, err := r.Walk()
	if err != nil {
		return err
	}
	workingSet := make(map[string]bool, len(working))
	for _, p := range working {
		workingSet[p] = true
	}

	for _, p := range working {
		hash, err := r.HashWorkingFile(p)
		if err != nil {
			return err
		}
		index[p] = hash
	}

	for path := range parentTree {
		if !workingSet[path] {
			delete(index, path)
		}
	}
	return nil
}

func (r *Repository) addPath(index TreeMap, raw string) error {
	rel, err := r.NormalizePath(raw)
	if err != nil {
		return err
	}

	if r.WorkingFileExists(rel) {
		hash, err := r.HashWorkingFile(rel)
		if err != nil {
			return err
		}
		index[rel] = hash
		return nil
	}

	files, err := r.filesUnderDir(rel)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return newErr(ErrPathNotFound, nil, "pathspec %q did not match any files", raw)
	}
	for _, f := range files {
		hash, err := r.HashWorkingFile(f)
		if err != nil {
			return err
		}
		index[f] = hash
	}
	return nil
}

func (r *Repository) filesUnderDir(rel string) ([]string, error) {
	all, err := r.Walk()
	if err != nil {
		return nil, err
	}
	prefix := rel + "/"
	var matches []string
	for _, f := range all {
		if f == rel || (len(f) > len(prefix) && f[:len(prefix)] == prefix) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

func (r *Repository) parentTree() (TreeMap, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	return r.TreeOfCommit(head)
}

// Commit composes T_C = T_P ∪ I from the current Index and parent tree,
// writes the tree and commit objects, advances the branch (or creates an
// orphan branch's first commit), and leaves the Index equal to T_C.
// Returns ErrNoChanges-equivalent via the (stats, created bool) pair: when
// created is false no commit was made because the tree did not change.
func (r *Repository) Commit(message, author string) (*Commit, CommitStats, bool, error) {
	if err := runPreCommitHook(r.MetaDir, r.RootDir); err != nil {
		return nil, CommitStats{}, false, err
	}

	head, err := r.Refs.CurrentHead()
	if err != nil {
		return nil, CommitStats{}, false, err
	}
	parentHash := head.Commit

	parentTree, err := r.TreeOfCommit(parentHash)
	if err != nil {
		return nil, CommitStats{}, false, err
	}

	index, err := r.Idx.Load()
	if err != nil {
		return nil, CommitStats{}, false, err
	}

	childTree := parentTree.Clone()
	for path, hash := range index {
		childTree[path] = hash
	}
	for path := range parentTree {
		if _, inIndex := index[path]; inIndex {
			continue
		}
		if !r.WorkingFileExists(path) {
			delete(childTree, path) // staged deletion: omitted from the index and gone from disk
		}
	}

	if treesEqual(childTree, parentTree) {
		return nil, CommitStats{}, false, nil
	}

	stats := computeCommitStats(parentTree, childTree, r)

	treeHash, err := r.Objects.PutTree(childTree)
	if err != nil {
		return nil, CommitStats{}, false, err
	}

	var parents []Hash
	if parentHash != "" {
		parents = []Hash{parentHash}
	}

	c := NewCommitNow(treeHash, parents, message, author, time.Now())
	commitHash, err := r.Objects.PutCommit(c)
	if err != nil {
		return nil, CommitStats{}, false, err
	}

	if head.Symbolic {
		if err := r.Refs.SetBranch(head.Branch, commitHash); err != nil {
			return nil, CommitStats{}, false, err
		}
	} else {
		if err := r.Refs.SetHeadDetached(commitHash); err != nil {
			return nil, CommitStats{}, false, err
		}
	}

	if err := r.Idx.Save(childTree); err != nil {
		return nil, CommitStats{}, false, err
	}

	stats.RootCommit = parentHash == ""
	runPostCommitHook(r.MetaDir, r.RootDir)

	return c, stats, true, nil
}

func treesEqual(a, b TreeMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func computeCommitStats(parent, child TreeMap, r *Repository) CommitStats {
	var stats CommitStats
	for path, hash := range child {
		if oldHash, existed := parent[path]; !existed {
			stats.NewFiles = append(stats.NewFiles, path)
			stats.Insertions += countLines(r, hash)
		} else if oldHash != hash {
			stats.Modified = append(stats.Modified, path)
		}
	}
	for path, hash := range parent {
		if _, stillPresent := child[path]; !stillPresent {
			stats.Deleted = append(stats.Deleted, path)
			stats.Deletions += countLines(r, hash)
		}
	}
	sort.Strings(stats.NewFiles)
	sort.Strings(stats.Modified)
	sort.Strings(stats.Deleted)
	stats.FilesChanged = len(stats.NewFiles) + len(stats.Modified) + len(stats.Deleted)
	return stats
}

func countLines(r *Repository, hash Hash) int {
	content, err := r.Objects.GetBlob(hash)
	if err != nil {
		return 0
	}
	if len(content) == 0 {
		return 0
	}
	return bytes.Count(content, []byte("\n")) + 1
}
