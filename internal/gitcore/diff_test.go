package gitcore

import "testing"

func TestTreeDiff_AddedModifiedDeleted(t *testing.T) {
	oldTree := TreeMap{
		"kept.txt":    Hash("0000000000000000000000000000000000000a"),
		"changed.txt": Hash("0000000000000000000000000000000000000b"),
		"gone.txt":    Hash("0000000000000000000000000000000000000c"),
	}
	newTree := TreeMap{
		"kept.txt":    Hash("0000000000000000000000000000000000000a"),
		"changed.txt": Hash("0000000000000000000000000000000000000d"),
		"new.txt":     Hash("0000000000000000000000000000000000000e"),
	}

	entries, err := TreeDiff(oldTree, newTree)
	if err != nil {
		t.Fatalf("TreeDiff() error: %v", err)
	}

	byPath := make(map[string]DiffEntry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	if _, ok := byPath["kept.txt"]; ok {
		t.Error("unchanged file should not appear in the diff")
	}
	if e, ok := byPath["changed.txt"]; !ok || e.Status != DiffStatusModified {
		t.Errorf("changed.txt = %+v, want Modified", e)
	}
	if e, ok := byPath["gone.txt"]; !ok || e.Status != DiffStatusDeleted {
		t.Errorf("gone.txt = %+v, want Deleted", e)
	}
	if e, ok := byPath["new.txt"]; !ok || e.Status != DiffStatusAdded {
		t.Errorf("new.txt = %+v, want Added", e)
	}
}

func TestTreeDiff_EmptyTreesProduceNoEntries(t *testing.T) {
	entries, err := TreeDiff(TreeMap{}, TreeMap{})
	if err != nil {
		t.Fatalf("TreeDiff() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestComputeFileDiff_AddedFileHasNoOldContent(t *testing.T) {
	repo := mustInit(t)
	newHash, err := repo.Objects.PutBlob([]byte("line one\nline two\n"))
	if err != nil {
		t.Fatal(err)
	}

	fd, err := ComputeFileDiff(repo, "", newHash, "new.txt", DefaultContextLines)
	if err != nil {
		t.Fatalf("ComputeFileDiff() error: %v", err)
	}
	if fd.IsBinary || fd.Truncated {
		t.Fatalf("expected a plain text diff, got %+v", fd)
	}
	if len(fd.Hunks) == 0 {
		t.Fatal("expected at least one hunk for an added file")
	}
	for _, line := range fd.Hunks[0].Lines {
		if line.Type == LineTypeDeletion {
			t.Error("added file should have no deletion lines")
		}
	}
}

func TestComputeFileDiff_BinaryContentDetected(t *testing.T) {
	repo := mustInit(t)
	payload := []byte{0x00, 0x01, 0x02, 0x03}
	hash, err := repo.Objects.PutBlob(payload)
	if err != nil {
		t.Fatal(err)
	}

	fd, err := ComputeFileDiff(repo, "", hash, "bin.dat", DefaultContextLines)
	if err != nil {
		t.Fatalf("ComputeFileDiff() error: %v", err)
	}
	if !fd.IsBinary {
		t.Error("expected binary content to be detected")
	}
}

func TestComputeFileDiff_ModifiedFileHasBothAdditionAndDeletion(t *testing.T) {
	repo := mustInit(t)
	oldHash, err := repo.Objects.PutBlob([]byte("alpha\nbeta\ngamma\n"))
	if err != nil {
		t.Fatal(err)
	}
	newHash, err := repo.Objects.PutBlob([]byte("alpha\nBETA\ngamma\n"))
	if err != nil {
		t.Fatal(err)
	}

	fd, err := ComputeFileDiff(repo, oldHash, newHash, "f.txt", DefaultContextLines)
	if err != nil {
		t.Fatalf("ComputeFileDiff() error: %v", err)
	}
	var sawAddition, sawDeletion bool
	for _, hunk := range fd.Hunks {
		for _, line := range hunk.Lines {
			if line.Type == LineTypeAddition {
				sawAddition = true
			}
			if line.Type == LineTypeDeletion {
				sawDeletion = true
			}
		}
	}
	if !sawAddition || !sawDeletion {
		t.Errorf("expected both an addition and a deletion line, got hunks %+v", fd.Hunks)
	}
}
