package gitcore

import "sort"

// FileStatus represents the status of a single file in the working tree.
type FileStatus struct {
	// Path is the slash-separated path relative to the repository root.
	Path string

	// IndexStatus describes the change staged relative to HEAD:
	//   "added"    — new file added to the index
	//   "modified" — file exists in both HEAD and index with different content
	//   "deleted"  — file present in HEAD has been removed from the index
	//   ""         — no staged change (file matches HEAD exactly)
	IndexStatus string

	// WorkStatus describes the change on disk relative to the index:
	//   "modified" — file exists on disk but differs from index content
	//   "deleted"  — file is tracked in the index but absent from disk
	//   ""         — working tree matches index (or file is untracked)
	WorkStatus string

	// IsUntracked is true when the file exists on disk but is not recorded
	// in the index at all. IndexStatus and WorkStatus are empty in this case.
	IsUntracked bool
}

// WorkingTreeStatus is the full working tree status.
type WorkingTreeStatus struct {
	Files []FileStatus
}

// ComputeWorkingTreeStatus compares HEAD's tree vs the index (staged
// changes), the index vs the working tree (unstaged changes), and walks the
// working tree for untracked files. No ignore patterns are applied: every
// file outside the Index is reported as untracked, and there is no implicit
// .rvsignore discovery (spec.md §1's non-goal).
func ComputeWorkingTreeStatus(r *Repository) (*WorkingTreeStatus, error) {
	headHash, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	headTree, err := r.TreeOfCommit(headHash)
	if err != nil {
		return nil, err
	}

	index, err := r.Idx.Load()
	if err != nil {
		return nil, err
	}

	results := make(map[string]*FileStatus)

	for path, hash := range index {
		headHash, inHead := headTree[path]
		var idxStatus string
		switch {
		case !inHead:
			idxStatus = "added"
		case headHash != hash:
			idxStatus = "modified"
		}
		if idxStatus != "" {
			results[path] = &FileStatus{Path: path, IndexStatus: idxStatus}
		}
	}
	for path := range headTree {
		if _, inIndex := index[path]; !inIndex {
			results[path] = &FileStatus{Path: path, IndexStatus: "deleted"}
		}
	}

	for path, hash := range index {
		if !r.WorkingFileExists(path) {
			fs := entryFor(results, path)
			fs.WorkStatus = "deleted"
			continue
		}
		actual, err := r.HashWorkingFile(path)
		if err != nil {
			return nil, err
		}
		if actual != hash {
			fs := entryFor(results, path)
			fs.WorkStatus = "modified"
		}
	}

	working, err := r.Walk()
	if err != nil {
		return nil, err
	}
	for _, path := range working {
		if _, tracked := index[path]; tracked {
			continue
		}
		results[path] = &FileStatus{Path: path, IsUntracked: true}
	}

	status := &WorkingTreeStatus{Files: make([]FileStatus, 0, len(results))}
	for _, fs := range results {
		status.Files = append(status.Files, *fs)
	}
	sort.Slice(status.Files, func(i, j int) bool { return status.Files[i].Path < status.Files[j].Path })
	return status, nil
}

func entryFor(results map[string]*FileStatus, path string) *FileStatus {
	if fs, ok := results[path]; ok {
		return fs
	}
	fs := &FileStatus{Path: path}
	results[path] = fs
	return fs
}
