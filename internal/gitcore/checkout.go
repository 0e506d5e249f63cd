package gitcore

// CheckoutOptions configures Checkout per spec.md §4.6.
type CheckoutOptions struct {
	Detach       bool
	Force        bool
	Create       bool // -b: create target as a new branch, fail if it exists
	CreateForce  bool // -B: create or reset target branch
	StartPoint   string
}

// CheckoutResult reports what Checkout did.
type CheckoutResult struct {
	PreviousBranch string
	NewBranch      string
	Detached       bool
	CommitHash     Hash
}

// Checkout resolves target, optionally creates a branch, enforces the dirty
// working tree safety gate, materializes the target tree, and updates
// HEAD and the Index.
func (r *Repository) Checkout(target string, opts CheckoutOptions) (*CheckoutResult, error) {
	prevBranch, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}

	var resolvedHash Hash
	branchName := ""

	if opts.Create || opts.CreateForce {
		start := opts.StartPoint
		if start == "" {
			start = "HEAD"
		}
		startHash, err := r.ResolveCommitish(start)
		if err != nil {
			return nil, err
		}
		if opts.Create && r.Refs.BranchExists(target) {
			return nil, newErr(ErrBranchExists, nil, "branch %q already exists", target)
		}
		if err := r.Refs.SetBranch(target, startHash); err != nil {
			return nil, err
		}
		resolvedHash = startHash
		branchName = target
	} else {
		resolvedHash, err = r.ResolveCommitish(target)
		if err != nil {
			return nil, err
		}
		if r.Refs.BranchExists(target) {
			branchName = target
		}
	}

	if !opts.Force {
		if err := r.checkDirty(); err != nil {
			return nil, err
		}
	}

	currentTree, err := r.Idx.Load()
	if err != nil {
		return nil, err
	}
	targetTree, err := r.TreeOfCommit(resolvedHash)
	if err != nil {
		return nil, err
	}

	if err := r.MaterializeTree(currentTree, targetTree); err != nil {
		return nil, err
	}

	detached := opts.Detach || branchName == ""
	if detached {
		if err := r.Refs.SetHeadDetached(resolvedHash); err != nil {
			return nil, err
		}
	} else {
		if err := r.Refs.SetHeadSymbolic(branchName); err != nil {
			return nil, err
		}
	}

	if err := r.Idx.Save(targetTree); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		PreviousBranch: prevBranch,
		NewBranch:      branchName,
		Detached:       detached,
		CommitHash:     resolvedHash,
	}, nil
}

// checkDirty implements the safety gate: Index != parent tree, or a working
// file's hash differs from the Index, or a path present in the parent tree
// is missing from the working tree.
func (r *Repository) checkDirty() error {
	parentTree, err := r.parentTree()
	if err != nil {
		return err
	}
	index, err := r.Idx.Load()
	if err != nil {
		return err
	}
	if !treesEqual(index, parentTree) {
		return newErr(ErrDirtyWorkingTree, nil, "your local changes would be overwritten; staged changes differ from HEAD")
	}
	for path, hash := range index {
		if !r.WorkingFileExists(path) {
			return newErr(ErrDirtyWorkingTree, nil, "your local changes would be overwritten; %s is missing", path)
		}
		actual, err := r.HashWorkingFile(path)
		if err != nil {
			return err
		}
		if actual != hash {
			return newErr(ErrDirtyWorkingTree, nil, "your local changes would be overwritten; %s has uncommitted modifications", path)
		}
	}
	return nil
}

// CheckoutPaths implements `checkout <tree-ish> -- <paths>`: writes each
// listed path's blob into the working tree from the resolved tree, without
// touching the Index (intentional, see spec.md §9).
func (r *Repository) CheckoutPaths(treeish string, paths []string) error {
	_, tree, err := r.ResolveTreeish(treeish)
	if err != nil {
		return err
	}
	for _, raw := range paths {
		rel, err := r.NormalizePath(raw)
		if err != nil {
			return err
		}
		hash, ok := tree[rel]
		if !ok {
			return newErr(ErrPathNotFound, nil, "pathspec %q did not match any file known to %q", raw, treeish)
		}
		content, err := r.Objects.GetBlob(hash)
		if err != nil {
			return err
		}
		if err := writeFileCreatingDirs(r.AbsPath(rel), content); err != nil {
			return err
		}
	}
	return nil
}
