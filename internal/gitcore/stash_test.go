package gitcore

import "testing"

func TestStashSave_RestoresCommittedTreeAndClearsIndex(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "committed\n", "base")

	writeFile(t, repo, "f.txt", "dirty\n")
	if err := repo.Add([]string{"f.txt"}); err != nil {
		t.Fatal(err)
	}

	rec, err := repo.StashSave("wip")
	if err != nil {
		t.Fatalf("StashSave() error: %v", err)
	}
	if rec.Message != "wip" {
		t.Errorf("Message = %q, want %q", rec.Message, "wip")
	}

	index, err := repo.Idx.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(index) != 0 {
		t.Errorf("expected empty index after stash, got %d entries", len(index))
	}

	hash, err := repo.HashWorkingFile("f.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(hash) == "" {
		t.Fatal("expected a working file hash")
	}
	content, err := repo.Objects.GetBlob(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "committed\n" {
		t.Errorf("working tree after stash = %q, want committed content", content)
	}
}

func TestStashPop_RestoresAndDrops(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "committed\n", "base")
	writeFile(t, repo, "f.txt", "dirty\n")
	if err := repo.Add([]string{"f.txt"}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.StashSave("wip"); err != nil {
		t.Fatal(err)
	}

	if err := repo.StashPop(0); err != nil {
		t.Fatalf("StashPop() error: %v", err)
	}

	records, err := repo.StashList()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected stash to be empty after pop, got %d", len(records))
	}

	index, err := repo.Idx.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index["f.txt"]; !ok {
		t.Error("expected f.txt to be restored to the index")
	}
}

func TestStashDrop_InvalidIndexReturnsError(t *testing.T) {
	repo := mustInit(t)
	commitFile(t, repo, "f.txt", "a\n", "base")

	err := repo.StashDrop(0)
	if KindOf(err) != ErrInvalidRevision {
		t.Errorf("error kind = %v, want ErrInvalidRevision", KindOf(err))
	}
}
