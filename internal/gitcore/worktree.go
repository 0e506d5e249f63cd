package gitcore

import (
	"os"
	"path/filepath"
	"strings"
)

// WorktreeManager operates on the additional-worktree metadata under the
// main repository's worktrees/ directory (spec.md §4.11).
type WorktreeManager struct {
	repo *Repository
}

// NewWorktreeManager returns a manager bound to the main repository repo.
func NewWorktreeManager(repo *Repository) *WorktreeManager {
	return &WorktreeManager{repo: repo}
}

func (w *WorktreeManager) metaDir(name string) string {
	return filepath.Join(w.repo.MainMetaDir, "worktrees", name)
}

// Add materializes target's tree into path, creates worktrees/<name>/ with
// HEAD, index, and gitdir, and writes path/.rvs pointing back at it.
func (w *WorktreeManager) Add(path, name, target string) (*WorktreeInfo, error) {
	if w.repo.Refs.BranchExists(target) {
		checkedOut, err := w.branchCheckedOutElsewhere(target)
		if err != nil {
			return nil, err
		}
		if checkedOut {
			return nil, newErr(ErrBranchCheckedOutElsewhere, nil, "branch %q is already checked out", target)
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "resolving worktree path")
	}

	targetHash, err := w.repo.ResolveCommitish(target)
	if err != nil {
		return nil, err
	}
	targetTree, err := w.repo.TreeOfCommit(targetHash)
	if err != nil {
		return nil, err
	}

	wtMetaDir := w.metaDir(name)
	if err := os.MkdirAll(wtMetaDir, 0o755); err != nil {
		return nil, newErr(ErrIOFailure, err, "creating worktree metadata directory")
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, newErr(ErrIOFailure, err, "creating worktree directory")
	}

	if err := os.WriteFile(filepath.Join(wtMetaDir, "gitdir"), []byte(w.repo.MainMetaDir), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "writing gitdir")
	}
	if err := os.WriteFile(filepath.Join(wtMetaDir, "path"), []byte(absPath), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "recording worktree path")
	}

	headContent := "ref: refs/heads/" + target
	if !w.repo.Refs.BranchExists(target) {
		headContent = string(targetHash)
	}
	if err := os.WriteFile(filepath.Join(wtMetaDir, "HEAD"), []byte(headContent), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "writing worktree HEAD")
	}

	wtIdx := NewIndex(filepath.Join(wtMetaDir, "index"))
	if err := wtIdx.Save(targetTree); err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(absPath, MetaDirName), []byte("rvsdir: "+wtMetaDir), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "writing worktree marker")
	}

	wtRepo := &Repository{RepoKind: KindWorktree, RootDir: absPath, MainMetaDir: w.repo.MainMetaDir, MetaDir: wtMetaDir}
	wtRepo.wire()
	if err := wtRepo.MaterializeTree(TreeMap{}, targetTree); err != nil {
		return nil, err
	}

	return &WorktreeInfo{Name: name, Path: absPath, Head: targetHash, Branch: target}, nil
}

func (w *WorktreeManager) branchCheckedOutElsewhere(branch string) (bool, error) {
	entries, err := w.List()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Branch == branch {
			return true, nil
		}
	}
	return false, nil
}

// List enumerates the primary worktree plus every entry under worktrees/
// whose gitdir points back at this repository.
func (w *WorktreeManager) List() ([]WorktreeInfo, error) {
	var result []WorktreeInfo

	head, err := w.repo.Refs.CurrentHead()
	if err != nil {
		return nil, err
	}
	result = append(result, WorktreeInfo{
		Name: "", Path: w.repo.RootDir, Head: head.Commit, Branch: head.Branch,
		Detached: !head.Symbolic, Bare: true,
	})

	worktreesDir := filepath.Join(w.repo.MainMetaDir, "worktrees")
	entries, err := os.ReadDir(worktreesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, newErr(ErrIOFailure, err, "listing worktrees")
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		wtMetaDir := filepath.Join(worktreesDir, name)

		gitdirBytes, err := os.ReadFile(filepath.Join(wtMetaDir, "gitdir"))
		if err != nil || strings.TrimSpace(string(gitdirBytes)) != w.repo.MainMetaDir {
			continue
		}

		refs := NewRefStore(filepath.Join(w.repo.MainMetaDir, "refs", "heads"), filepath.Join(wtMetaDir, "HEAD"))
		hs, err := refs.CurrentHead()
		if err != nil {
			continue
		}

		info := WorktreeInfo{
			Name: name, Head: hs.Commit, Branch: hs.Branch, Detached: !hs.Symbolic,
			Locked: worktreeLocked(wtMetaDir),
		}
		if p, err := worktreePath(wtMetaDir, name); err == nil {
			info.Path = p
		}
		result = append(result, info)
	}

	return result, nil
}

// worktreePath recovers a worktree's working directory by resolving the
// main .rvs reverse pointer is not stored; instead rvsdir files point
// forward, so the path is tracked in a sibling "path" file written at Add.
func worktreePath(wtMetaDir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(wtMetaDir, "path"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func worktreeLocked(wtMetaDir string) bool {
	_, err := os.Stat(filepath.Join(wtMetaDir, "locked"))
	return err == nil
}

// Remove deletes the worktree directory and its metadata, refusing if locked.
func (w *WorktreeManager) Remove(name string) error {
	wtMetaDir := w.metaDir(name)
	if worktreeLocked(wtMetaDir) {
		return newErr(ErrDirtyWorkingTree, nil, "worktree %q is locked", name)
	}
	path, err := worktreePath(wtMetaDir, name)
	if err == nil && path != "" {
		if err := os.RemoveAll(path); err != nil {
			return newErr(ErrIOFailure, err, "removing worktree directory")
		}
	}
	if err := os.RemoveAll(wtMetaDir); err != nil {
		return newErr(ErrIOFailure, err, "removing worktree metadata")
	}
	return nil
}

// Lock writes a locked marker file in the worktree's metadata directory.
func (w *WorktreeManager) Lock(name string) error {
	return os.WriteFile(filepath.Join(w.metaDir(name), "locked"), []byte{}, 0o644)
}

// Unlock removes the locked marker file.
func (w *WorktreeManager) Unlock(name string) error {
	err := os.Remove(filepath.Join(w.metaDir(name), "locked"))
	if err != nil && !os.IsNotExist(err) {
		return newErr(ErrIOFailure, err, "unlocking worktree %q", name)
	}
	return nil
}

// Move relocates a worktree's working directory to newPath and updates its
// recorded path, refusing if locked.
func (w *WorktreeManager) Move(name, newPath string) error {
	wtMetaDir := w.metaDir(name)
	if worktreeLocked(wtMetaDir) {
		return newErr(ErrDirtyWorkingTree, nil, "worktree %q is locked", name)
	}
	oldPath, err := worktreePath(wtMetaDir, name)
	if err != nil {
		return newErr(ErrIOFailure, err, "reading worktree path")
	}
	absNew, err := filepath.Abs(newPath)
	if err != nil {
		return newErr(ErrIOFailure, err, "resolving new worktree path")
	}
	if err := os.Rename(oldPath, absNew); err != nil {
		return newErr(ErrIOFailure, err, "moving worktree directory")
	}
	if err := os.WriteFile(filepath.Join(wtMetaDir, "path"), []byte(absNew), 0o644); err != nil {
		return newErr(ErrIOFailure, err, "updating worktree path")
	}
	return nil
}

// Prune removes metadata for worktrees whose recorded path no longer exists.
func (w *WorktreeManager) Prune() ([]string, error) {
	worktreesDir := filepath.Join(w.repo.MainMetaDir, "worktrees")
	entries, err := os.ReadDir(worktreesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newErr(ErrIOFailure, err, "listing worktrees")
	}

	var pruned []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		wtMetaDir := filepath.Join(worktreesDir, name)
		path, err := worktreePath(wtMetaDir, name)
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			if err := os.RemoveAll(wtMetaDir); err != nil {
				return pruned, newErr(ErrIOFailure, err, "pruning worktree %q", name)
			}
			pruned = append(pruned, name)
		}
	}
	return pruned, nil
}
