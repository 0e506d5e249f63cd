package gitcore

// ResetMode selects Reset's behavior per spec.md §4.9.
type ResetMode int

const (
	ResetSoft ResetMode = iota
	ResetMixed
	ResetHard
	ResetKeep
)

// Reset resolves target (accepting the HEAD~N form via ResolveCommitish)
// and applies mode's semantics.
func (r *Repository) Reset(target string, mode ResetMode) (Hash, error) {
	targetHash, err := r.ResolveCommitish(target)
	if err != nil {
		return "", err
	}

	if err := r.Refs.AdvanceHead(targetHash); err != nil {
		return "", err
	}

	if mode == ResetSoft || mode == ResetKeep {
		return targetHash, nil
	}

	targetTree, err := r.TreeOfCommit(targetHash)
	if err != nil {
		return "", err
	}

	if mode == ResetHard {
		currentTree, err := r.Idx.Load()
		if err != nil {
			return "", err
		}
		if err := r.MaterializeTree(currentTree, targetTree); err != nil {
			return "", err
		}
	}

	if err := r.Idx.Save(targetTree); err != nil {
		return "", err
	}
	return targetHash, nil
}

// ResetPaths takes per-path entries from target's tree into the Index
// (removing entries absent from target), without touching the working tree.
func (r *Repository) ResetPaths(target string, paths []string) error {
	_, targetTree, err := r.ResolveTreeish(target)
	if err != nil {
		return err
	}
	index, err := r.Idx.Load()
	if err != nil {
		return err
	}
	for _, raw := range paths {
		rel, err := r.NormalizePath(raw)
		if err != nil {
			return err
		}
		if hash, ok := targetTree[rel]; ok {
			index[rel] = hash
		} else {
			delete(index, rel)
		}
	}
	return r.Idx.Save(index)
}
