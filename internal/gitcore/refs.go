package gitcore

import (
	"os"
	"path/filepath"
	"strings"
)

// RefStore manages HEAD and refs/heads/<branch> files for one worktree's
// metadata root. Branch and object data are shared across worktrees, but a
// RefStore is constructed per-worktree since HEAD is per-worktree (spec.md §3).
//
// Writes here are last-writer-wins with no locking — spec.md §5 notes this
// is a known limitation rather than a bug to silently paper over.
type RefStore struct {
	headsDir string // <mainMetaDir>/refs/heads
	headFile string // <metaDir>/HEAD (per-worktree)
}

// NewRefStore returns a RefStore. headsDir is always the main repository's
// refs/heads (shared); headFile is the caller's own HEAD file.
func NewRefStore(headsDir, headFile string) *RefStore {
	return &RefStore{headsDir: headsDir, headFile: headFile}
}

func (rs *RefStore) branchPath(name string) string {
	return filepath.Join(rs.headsDir, name)
}

// ResolveBranch returns the commit hash a branch points to, or "" if the
// branch file does not exist (an orphan branch).
func (rs *RefStore) ResolveBranch(name string) (Hash, error) {
	data, err := os.ReadFile(rs.branchPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", newErr(ErrIOFailure, err, "reading branch %s", name)
	}
	return Hash(strings.TrimSpace(string(data))), nil
}

// BranchExists reports whether a branch ref file exists.
func (rs *RefStore) BranchExists(name string) bool {
	_, err := os.Stat(rs.branchPath(name))
	return err == nil
}

// SetBranch writes hash as the tip of branch name, creating refs/heads if needed.
func (rs *RefStore) SetBranch(name string, hash Hash) error {
	if err := os.MkdirAll(rs.headsDir, 0o755); err != nil {
		return newErr(ErrIOFailure, err, "creating refs/heads")
	}
	if err := os.WriteFile(rs.branchPath(name), []byte(hash), 0o644); err != nil {
		return newErr(ErrIOFailure, err, "writing branch %s", name)
	}
	return nil
}

// DeleteBranch removes a branch ref file.
func (rs *RefStore) DeleteBranch(name string) error {
	if err := os.Remove(rs.branchPath(name)); err != nil && !os.IsNotExist(err) {
		return newErr(ErrIOFailure, err, "deleting branch %s", name)
	}
	return nil
}

// ListBranches returns all branch names under refs/heads.
func (rs *RefStore) ListBranches() ([]string, error) {
	entries, err := os.ReadDir(rs.headsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newErr(ErrIOFailure, err, "listing refs/heads")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// CurrentHead reads this worktree's HEAD file and classifies it.
func (rs *RefStore) CurrentHead() (HeadState, error) {
	data, err := os.ReadFile(rs.headFile)
	if err != nil {
		return HeadState{}, newErr(ErrIOFailure, err, "reading HEAD")
	}
	line := strings.TrimSpace(string(data))

	if branch, ok := strings.CutPrefix(line, "ref: refs/heads/"); ok {
		commit, err := rs.ResolveBranch(branch)
		if err != nil {
			return HeadState{}, err
		}
		return HeadState{Symbolic: true, Branch: branch, Commit: commit, Orphan: commit == ""}, nil
	}

	hash, err := NewHash(line)
	if err != nil {
		return HeadState{}, newErr(ErrObjectCorrupt, err, "malformed HEAD contents %q", line)
	}
	return HeadState{Symbolic: false, Commit: hash}, nil
}

// SetHeadSymbolic points HEAD at a branch name without requiring the branch to exist yet.
func (rs *RefStore) SetHeadSymbolic(name string) error {
	return os.WriteFile(rs.headFile, []byte("ref: refs/heads/"+name), 0o644)
}

// SetHeadDetached points HEAD directly at a commit hash.
func (rs *RefStore) SetHeadDetached(hash Hash) error {
	return os.WriteFile(rs.headFile, []byte(hash), 0o644)
}

// AdvanceHead advances whatever HEAD currently points to (the current
// branch, or HEAD itself if detached) to hash.
func (rs *RefStore) AdvanceHead(hash Hash) error {
	head, err := rs.CurrentHead()
	if err != nil {
		return err
	}
	if head.Symbolic {
		return rs.SetBranch(head.Branch, hash)
	}
	return rs.SetHeadDetached(hash)
}
