package gitcore

import "testing"

func TestReset_SoftMovesHeadOnly(t *testing.T) {
	repo := mustInit(t)
	first := commitFile(t, repo, "f.txt", "one\n", "first")
	commitFile(t, repo, "f.txt", "two\n", "second")

	if _, err := repo.Reset(string(first), ResetSoft); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	head := mustHead(t, repo)
	if head != first {
		t.Errorf("HEAD = %s, want %s", head, first)
	}

	index, err := repo.Idx.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index["f.txt"]; !ok {
		t.Error("expected index to still contain f.txt's staged (second) state")
	}
}

func TestReset_MixedUpdatesIndexNotWorkingTree(t *testing.T) {
	repo := mustInit(t)
	first := commitFile(t, repo, "f.txt", "one\n", "first")
	commitFile(t, repo, "f.txt", "two\n", "second")

	if _, err := repo.Reset(string(first), ResetMixed); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	index, err := repo.Idx.Load()
	if err != nil {
		t.Fatal(err)
	}
	firstCommit, err := repo.Objects.GetCommit(first)
	if err != nil {
		t.Fatal(err)
	}
	firstTree, err := repo.Objects.GetTree(firstCommit.Tree)
	if err != nil {
		t.Fatal(err)
	}
	if index["f.txt"] != firstTree["f.txt"] {
		t.Error("expected index entry to match the reset target's tree")
	}

	hash, err := repo.HashWorkingFile("f.txt")
	if err != nil {
		t.Fatal(err)
	}
	content, err := repo.Objects.GetBlob(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "two\n" {
		t.Errorf("working tree content = %q, want unchanged %q", content, "two\n")
	}
}

func TestReset_HardUpdatesWorkingTree(t *testing.T) {
	repo := mustInit(t)
	first := commitFile(t, repo, "f.txt", "one\n", "first")
	commitFile(t, repo, "f.txt", "two\n", "second")

	if _, err := repo.Reset(string(first), ResetHard); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	hash, err := repo.HashWorkingFile("f.txt")
	if err != nil {
		t.Fatal(err)
	}
	content, err := repo.Objects.GetBlob(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "one\n" {
		t.Errorf("working tree content = %q, want %q", content, "one\n")
	}
}

func TestResetPaths_DoesNotTouchWorkingTree(t *testing.T) {
	repo := mustInit(t)
	first := commitFile(t, repo, "f.txt", "one\n", "first")
	commitFile(t, repo, "f.txt", "two\n", "second")

	if err := repo.ResetPaths(string(first), []string{"f.txt"}); err != nil {
		t.Fatalf("ResetPaths() error: %v", err)
	}

	hash, err := repo.HashWorkingFile("f.txt")
	if err != nil {
		t.Fatal(err)
	}
	content, err := repo.Objects.GetBlob(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "two\n" {
		t.Errorf("working tree content = %q, want unchanged %q", content, "two\n")
	}
}
