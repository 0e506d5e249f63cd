package gitcore

import (
	"os"
	"testing"
)

func statusFor(t *testing.T, repo *Repository, path string) (FileStatus, bool) {
	t.Helper()
	st, err := ComputeWorkingTreeStatus(repo)
	if err != nil {
		t.Fatalf("ComputeWorkingTreeStatus() error: %v", err)
	}
	for _, fs := range st.Files {
		if fs.Path == path {
			return fs, true
		}
	}
	return FileStatus{}, false
}

func TestStatus_UntrackedFile(t *testing.T) {
	repo := mustInit(t)
	writeFile(t, repo, "a.txt", "hello\n")

	fs, ok := statusFor(t, repo, "a.txt")
	if !ok {
		t.Fatal("expected a.txt to appear in status")
	}
	if !fs.IsUntracked {
		t.Error("expected a.txt to be untracked")
	}
}

func TestStatus_StagedAddition(t *testing.T) {
	repo := mustInit(t)
	writeFile(t, repo, "a.txt", "hello\n")
	if err := repo.Add([]string{"a.txt"}); err != nil {
		t.Fatal(err)
	}

	fs, ok := statusFor(t, repo, "a.txt")
	if !ok {
		t.Fatal("expected a.txt to appear in status")
	}
	if fs.IndexStatus != "added" {
		t.Errorf("IndexStatus = %q, want added", fs.IndexStatus)
	}
}

func TestStatus_UnstagedModification(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	writeFile(t, repo, "a.txt", "two\n")

	fs, ok := statusFor(t, repo, "a.txt")
	if !ok {
		t.Fatal("expected a.txt to appear in status")
	}
	if fs.WorkStatus != "modified" {
		t.Errorf("WorkStatus = %q, want modified", fs.WorkStatus)
	}
	if fs.IndexStatus != "" {
		t.Errorf("IndexStatus = %q, want empty (nothing staged)", fs.IndexStatus)
	}
}

func TestStatus_DeletedFromDisk(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	if err := os.Remove(repo.AbsPath("a.txt")); err != nil {
		t.Fatal(err)
	}

	fs, ok := statusFor(t, repo, "a.txt")
	if !ok {
		t.Fatal("expected a.txt to still appear in status")
	}
	if fs.WorkStatus != "deleted" {
		t.Errorf("WorkStatus = %q, want deleted", fs.WorkStatus)
	}
}

func TestStatus_CleanRepoReportsNoFiles(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	st, err := ComputeWorkingTreeStatus(repo)
	if err != nil {
		t.Fatalf("ComputeWorkingTreeStatus() error: %v", err)
	}
	if len(st.Files) != 0 {
		t.Errorf("expected no status entries in a clean repo, got %+v", st.Files)
	}
}
