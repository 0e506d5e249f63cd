package gitcore

import (
	"os"
	"path/filepath"
	"testing"
)

func mustInit(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	repo, err := Init(dir, "main")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	return repo
}

func writeFile(t *testing.T, repo *Repository, rel, content string) {
	t.Helper()
	abs := repo.AbsPath(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInit_CreatesMetadataLayout(t *testing.T) {
	repo := mustInit(t)

	for _, sub := range []string{"objects", "refs/heads", "hooks", "worktrees"} {
		if _, err := os.Stat(filepath.Join(repo.MainMetaDir, sub)); err != nil {
			t.Errorf("missing %s: %v", sub, err)
		}
	}

	head, err := repo.Refs.CurrentHead()
	if err != nil {
		t.Fatalf("CurrentHead() error: %v", err)
	}
	if !head.Symbolic || head.Branch != "main" {
		t.Errorf("head = %+v, want symbolic main", head)
	}
	if head.Commit != "" {
		t.Errorf("expected no commit on fresh init, got %s", head.Commit)
	}
}

func TestInit_Idempotent(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, "main"); err != nil {
		t.Fatal(err)
	}
	repo2, err := Init(dir, "main")
	if err != nil {
		t.Fatalf("second Init() error: %v", err)
	}
	if repo2.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", repo2.RootDir, dir)
	}
}

func TestAddAndCommit_RootCommit(t *testing.T) {
	repo := mustInit(t)
	writeFile(t, repo, "a.txt", "hello\n")

	if err := repo.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	commit, stats, created, err := repo.Commit("initial commit", "Test User")
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if !created {
		t.Fatal("expected a commit to be created")
	}
	if !stats.RootCommit {
		t.Error("expected RootCommit stat to be true")
	}
	if len(commit.Parents) != 0 {
		t.Errorf("root commit should have no parents, got %d", len(commit.Parents))
	}

	head, err := repo.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit() error: %v", err)
	}
	if head == "" {
		t.Fatal("HEAD should resolve to the new commit")
	}
}

func TestCommit_NothingToCommitIsNotAnError(t *testing.T) {
	repo := mustInit(t)
	writeFile(t, repo, "a.txt", "hello\n")
	if err := repo.Add([]string{"a.txt"}); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := repo.Commit("first", "Test User"); err != nil {
		t.Fatal(err)
	}

	_, _, created, err := repo.Commit("nothing changed", "Test User")
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if created {
		t.Error("expected no commit to be created when the tree is unchanged")
	}
}

func TestResolveCommitish_HeadTilde(t *testing.T) {
	repo := mustInit(t)
	writeFile(t, repo, "a.txt", "one\n")
	if err := repo.Add([]string{"a.txt"}); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := repo.Commit("first", "Test User"); err != nil {
		t.Fatal(err)
	}
	first, err := repo.HeadCommit()
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, repo, "a.txt", "two\n")
	if err := repo.Add([]string{"a.txt"}); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := repo.Commit("second", "Test User"); err != nil {
		t.Fatal(err)
	}

	resolved, err := repo.ResolveCommitish("HEAD~1")
	if err != nil {
		t.Fatalf("ResolveCommitish(HEAD~1) error: %v", err)
	}
	if resolved != first {
		t.Errorf("HEAD~1 = %s, want %s", resolved, first)
	}
}

func TestCheckout_DirtyWorkingTreeIsRejected(t *testing.T) {
	repo := mustInit(t)
	writeFile(t, repo, "a.txt", "one\n")
	if err := repo.Add([]string{"a.txt"}); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := repo.Commit("first", "Test User"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Refs.SetBranch("feature", mustHead(t, repo)); err != nil {
		t.Fatal(err)
	}

	writeFile(t, repo, "a.txt", "dirty\n")

	_, err := repo.Checkout("feature", CheckoutOptions{})
	if err == nil {
		t.Fatal("expected checkout to fail on a dirty working tree")
	}
	if KindOf(err) != ErrDirtyWorkingTree {
		t.Errorf("error kind = %v, want ErrDirtyWorkingTree", KindOf(err))
	}
}

func mustHead(t *testing.T, repo *Repository) Hash {
	t.Helper()
	h, err := repo.HeadCommit()
	if err != nil {
		t.Fatal(err)
	}
	return h
}
