package gitcore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorktreeAdd_CreatesMetadataAndMaterializesTree(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "hello\n", "base")
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	wtPath := filepath.Join(t.TempDir(), "wt")
	mgr := NewWorktreeManager(repo)
	info, err := mgr.Add(wtPath, "wt1", "feature")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if info.Branch != "feature" {
		t.Errorf("Branch = %q, want feature", info.Branch)
	}

	if _, err := os.Stat(filepath.Join(wtPath, MetaDirName)); err != nil {
		t.Errorf("missing .rvs marker in worktree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(wtPath, "f.txt")); err != nil {
		t.Errorf("expected f.txt materialized in worktree: %v", err)
	}

	wtMetaDir := filepath.Join(repo.MainMetaDir, "worktrees", "wt1")
	for _, name := range []string{"HEAD", "index", "gitdir", "path"} {
		if _, err := os.Stat(filepath.Join(wtMetaDir, name)); err != nil {
			t.Errorf("missing worktree metadata file %s: %v", name, err)
		}
	}
}

func TestWorktreeAdd_RefusesAlreadyCheckedOutBranch(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "hello\n", "base")
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	mgr := NewWorktreeManager(repo)
	if _, err := mgr.Add(filepath.Join(t.TempDir(), "wt1"), "wt1", "feature"); err != nil {
		t.Fatal(err)
	}

	_, err := mgr.Add(filepath.Join(t.TempDir(), "wt2"), "wt2", "feature")
	if KindOf(err) != ErrBranchCheckedOutElsewhere {
		t.Errorf("error kind = %v, want ErrBranchCheckedOutElsewhere", KindOf(err))
	}
}

func TestWorktreeList_IncludesPrimaryAndAdded(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "hello\n", "base")
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	mgr := NewWorktreeManager(repo)
	if _, err := mgr.Add(filepath.Join(t.TempDir(), "wt1"), "wt1", "feature"); err != nil {
		t.Fatal(err)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(list))
	}

	var foundPrimary, foundWt1 bool
	for _, e := range list {
		if e.Name == "" {
			foundPrimary = true
		}
		if e.Name == "wt1" {
			foundWt1 = true
		}
	}
	if !foundPrimary || !foundWt1 {
		t.Errorf("List() = %+v, missing primary or wt1", list)
	}
}

func TestWorktreeRemove_RefusesLocked(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "hello\n", "base")
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	mgr := NewWorktreeManager(repo)
	if _, err := mgr.Add(filepath.Join(t.TempDir(), "wt1"), "wt1", "feature"); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Lock("wt1"); err != nil {
		t.Fatal(err)
	}

	err := mgr.Remove("wt1")
	if KindOf(err) != ErrDirtyWorkingTree {
		t.Errorf("error kind = %v, want ErrDirtyWorkingTree", KindOf(err))
	}

	if err := mgr.Unlock("wt1"); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Remove("wt1"); err != nil {
		t.Errorf("Remove() after unlock error: %v", err)
	}
}

func TestWorktreePrune_RemovesMissingDirectories(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "hello\n", "base")
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	wtDir := t.TempDir()
	wtPath := filepath.Join(wtDir, "wt1")
	mgr := NewWorktreeManager(repo)
	if _, err := mgr.Add(wtPath, "wt1", "feature"); err != nil {
		t.Fatal(err)
	}

	if err := os.RemoveAll(wtPath); err != nil {
		t.Fatal(err)
	}

	pruned, err := mgr.Prune()
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if len(pruned) != 1 || pruned[0] != "wt1" {
		t.Errorf("Prune() = %v, want [wt1]", pruned)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("List() after prune = %d entries, want 1", len(list))
	}
}

func TestWorktreeMove_UpdatesRecordedPath(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "hello\n", "base")
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	oldPath := filepath.Join(root, "wt1")
	newPath := filepath.Join(root, "wt1-moved")

	mgr := NewWorktreeManager(repo)
	if _, err := mgr.Add(oldPath, "wt1", "feature"); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Move("wt1", newPath); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(newPath, "f.txt")); err != nil {
		t.Errorf("expected f.txt at moved path: %v", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("expected old worktree path to be gone, got err=%v", err)
	}
}
