package gitcore

import "time"

// RebaseResult reports the outcome of a linear rebase.
type RebaseResult struct {
	Replayed   int
	FinalHash  Hash
	NoOp       bool
}

// Rebase replays every commit on the current branch that is not reachable
// from upstream onto a moving base starting at upstream, using each
// commit's complete tree (not a diff), per spec.md §4.8.
//
// Interactive rebase is specified as identical to linear rebase; the
// caller-facing "interactive list" is informational only and has no
// separate code path here.
func (r *Repository) Rebase(upstreamRef string, author string) (*RebaseResult, error) {
	upstreamHash, err := r.ResolveCommitish(upstreamRef)
	if err != nil {
		return nil, err
	}
	tip, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}

	toReplay, err := r.commitsNotReachableFrom(tip, upstreamHash)
	if err != nil {
		return nil, err
	}
	if len(toReplay) == 0 {
		return &RebaseResult{NoOp: true, FinalHash: tip}, nil
	}

	base := upstreamHash
	for _, k := range toReplay {
		commit, err := r.Objects.GetCommit(k)
		if err != nil {
			return nil, err
		}
		var parents []Hash
		if base != "" {
			parents = []Hash{base}
		}
		newCommit := NewCommitNow(commit.Tree, parents, commit.Message, author, time.Now())
		newHash, err := r.Objects.PutCommit(newCommit)
		if err != nil {
			return nil, err
		}
		base = newHash
	}

	currentTree, err := r.Idx.Load()
	if err != nil {
		return nil, err
	}
	finalTree, err := r.TreeOfCommit(base)
	if err != nil {
		return nil, err
	}
	if err := r.MaterializeTree(currentTree, finalTree); err != nil {
		return nil, err
	}
	if err := r.Refs.AdvanceHead(base); err != nil {
		return nil, err
	}
	if err := r.Idx.Save(finalTree); err != nil {
		return nil, err
	}

	return &RebaseResult{Replayed: len(toReplay), FinalHash: base}, nil
}

// commitsNotReachableFrom walks tip's first-parent chain, stopping at the
// first commit reachable from upstream or at an already-visited commit, and
// returns the commits found (oldest first, ready to replay in order).
func (r *Repository) commitsNotReachableFrom(tip, upstream Hash) ([]Hash, error) {
	reachable, err := r.ancestorSet(upstream)
	if err != nil {
		return nil, err
	}
	var chain []Hash
	seen := map[Hash]bool{}
	current := tip
	for current != "" && !reachable[current] && !seen[current] {
		seen[current] = true
		chain = append(chain, current)
		c, err := r.Objects.GetCommit(current)
		if err != nil {
			return nil, err
		}
		current = c.Parent()
	}
	reversed := make([]Hash, len(chain))
	for i, h := range chain {
		reversed[len(chain)-1-i] = h
	}
	return reversed, nil
}
