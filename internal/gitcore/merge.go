package gitcore

import (
	"sort"
	"time"
)

// MergeBase finds the nearest common ancestor of a and b by collecting b's
// ancestors (following first-parent and merge-parent links) into a set,
// then walking a's first-parent chain and returning the first commit found
// in that set.
//
// If no common ancestor is found, a is returned as a fallback base. This
// mirrors a documented quirk rather than an improvement: see DESIGN.md's
// merge-base entry for why failing outright was rejected here.
func (r *Repository) MergeBase(a, b Hash) (Hash, error) {
	if a == b {
		return a, nil
	}

	ancestorsOfB, err := r.ancestorSet(b)
	if err != nil {
		return "", err
	}

	current := a
	for current != "" {
		if ancestorsOfB[current] {
			return current, nil
		}
		c, err := r.Objects.GetCommit(current)
		if err != nil {
			return "", err
		}
		current = c.Parent()
	}

	return a, nil
}

// ancestorSet walks every first-parent and merge-parent link reachable from
// start and returns the set of visited commit hashes, including start.
func (r *Repository) ancestorSet(start Hash) (map[Hash]bool, error) {
	seen := map[Hash]bool{}
	queue := []Hash{start}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		c, err := r.Objects.GetCommit(h)
		if err != nil {
			return nil, err
		}
		queue = append(queue, c.Parents...)
	}
	return seen, nil
}

// isAncestor reports whether candidate is reachable from tip by following
// first-parent and merge-parent links (used to classify fast-forwards).
func (r *Repository) isAncestor(candidate, tip Hash) (bool, error) {
	ancestors, err := r.ancestorSet(tip)
	if err != nil {
		return false, err
	}
	return ancestors[candidate], nil
}

// MergeOptions configures Merge per spec.md §4.7.
type MergeOptions struct {
	NoFF     bool
	FFOnly   bool
	Squash   bool
	NoCommit bool
	Author   string
}

// Merge merges theirsRef into the current branch.
func (r *Repository) Merge(theirsRef string, opts MergeOptions) (*MergeResult, error) {
	oursHash, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	theirsHash, err := r.ResolveCommitish(theirsRef)
	if err != nil {
		return nil, err
	}

	if oursHash == theirsHash {
		return &MergeResult{AlreadyUpToDate: true, CommitHash: oursHash}, nil
	}

	base, err := r.MergeBase(oursHash, theirsHash)
	if err != nil {
		return nil, err
	}

	ff, err := r.isAncestor(oursHash, theirsHash)
	if err != nil {
		return nil, err
	}

	if ff && !opts.NoFF {
		return r.fastForward(theirsHash, base)
	}
	if opts.FFOnly {
		return nil, newErr(ErrInvalidRevision, nil, "not possible to fast-forward, aborting")
	}

	return r.threeWayMerge(oursHash, theirsHash, base, opts)
}

func (r *Repository) fastForward(theirsHash, base Hash) (*MergeResult, error) {
	targetTree, err := r.TreeOfCommit(theirsHash)
	if err != nil {
		return nil, err
	}
	currentTree, err := r.Idx.Load()
	if err != nil {
		return nil, err
	}
	if err := r.MaterializeTree(currentTree, targetTree); err != nil {
		return nil, err
	}
	if err := r.Refs.AdvanceHead(theirsHash); err != nil {
		return nil, err
	}
	if err := r.Idx.Save(targetTree); err != nil {
		return nil, err
	}
	return &MergeResult{FastForward: true, CommitHash: theirsHash, MergeBase: base}, nil
}

// threeWayMerge implements spec.md §4.7's per-path classification and
// conflict-marker synthesis, then composes a merge commit if nothing
// conflicted.
func (r *Repository) threeWayMerge(oursHash, theirsHash, base Hash, opts MergeOptions) (*MergeResult, error) {
	baseTree, err := r.TreeOfCommit(base)
	if err != nil {
		return nil, err
	}
	oursTree, err := r.TreeOfCommit(oursHash)
	if err != nil {
		return nil, err
	}
	theirsTree, err := r.TreeOfCommit(theirsHash)
	if err != nil {
		return nil, err
	}

	merged := TreeMap{}
	var conflicts []string

	paths := unionPaths(baseTree, oursTree, theirsTree)
	for _, path := range paths {
		b, o, t := baseTree[path], oursTree[path], theirsTree[path]

		switch {
		case o == t:
			if o != "" {
				merged[path] = o
			}
		case o == b:
			if t != "" {
				merged[path] = t
			}
		case t == b:
			if o != "" {
				merged[path] = o
			}
		default:
			if err := r.writeConflictMarker(path, o, t, merged); err != nil {
				return nil, err
			}
			conflicts = append(conflicts, path)
		}
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		if err := r.Idx.Save(merged); err != nil {
			return nil, err
		}
		return &MergeResult{Conflicts: conflicts, MergeBase: base}, nil
	}

	currentTree, err := r.Idx.Load()
	if err != nil {
		return nil, err
	}
	if err := r.MaterializeTree(currentTree, merged); err != nil {
		return nil, err
	}
	if err := r.Idx.Save(merged); err != nil {
		return nil, err
	}

	if opts.NoCommit {
		return &MergeResult{MergeBase: base}, nil
	}

	treeHash, err := r.Objects.PutTree(merged)
	if err != nil {
		return nil, err
	}

	var parents []Hash
	if opts.Squash {
		parents = []Hash{oursHash}
	} else {
		parents = []Hash{oursHash, theirsHash}
	}

	message := "Merge " + string(theirsHash.Short())
	c := NewCommitNow(treeHash, parents, message, opts.Author, time.Now())
	commitHash, err := r.Objects.PutCommit(c)
	if err != nil {
		return nil, err
	}
	if err := r.Refs.AdvanceHead(commitHash); err != nil {
		return nil, err
	}

	return &MergeResult{CommitHash: commitHash, MergeBase: base}, nil
}

// writeConflictMarker materializes the conflicted file with Git-style
// markers and records our hex in merged, per spec.md §4.7: the on-disk
// file now differs from any stored blob and is left uncommitted.
func (r *Repository) writeConflictMarker(path string, ours, theirs Hash, merged TreeMap) error {
	var oursContent, theirsContent []byte
	var err error
	if ours != "" {
		oursContent, err = r.Objects.GetBlob(ours)
		if err != nil {
			return err
		}
	}
	if theirs != "" {
		theirsContent, err = r.Objects.GetBlob(theirs)
		if err != nil {
			return err
		}
	}

	conflict := append([]byte("<<<<<<< HEAD\n"), oursContent...)
	conflict = append(conflict, []byte("=======\n")...)
	conflict = append(conflict, theirsContent...)
	conflict = append(conflict, []byte(">>>>>>> target\n")...)

	if err := writeFileCreatingDirs(r.AbsPath(path), conflict); err != nil {
		return err
	}
	if ours != "" {
		merged[path] = ours
	}
	return nil
}

func unionPaths(trees ...TreeMap) []string {
	set := map[string]bool{}
	for _, t := range trees {
		for p := range t {
			set[p] = true
		}
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
