package gitcore

import "testing"

// commitFile writes content to rel, stages it, and commits, returning the
// new commit hash.
func commitFile(t *testing.T, repo *Repository, rel, content, message string) Hash {
	t.Helper()
	writeFile(t, repo, rel, content)
	if err := repo.Add([]string{rel}); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := repo.Commit(message, "Test User"); err != nil {
		t.Fatal(err)
	}
	return mustHead(t, repo)
}

func TestMergeBase_LinearHistory(t *testing.T) {
	repo := mustInit(t)
	a := commitFile(t, repo, "f.txt", "a\n", "a")
	b := commitFile(t, repo, "f.txt", "ab\n", "b")

	base, err := repo.MergeBase(a, b)
	if err != nil {
		t.Fatalf("MergeBase() error: %v", err)
	}
	if base != a {
		t.Errorf("MergeBase = %s, want %s", base, a)
	}
}

func TestMergeBase_DiamondHistory(t *testing.T) {
	repo := mustInit(t)
	a := commitFile(t, repo, "f.txt", "a\n", "a")

	if err := repo.Refs.SetBranch("feature", a); err != nil {
		t.Fatal(err)
	}
	b := commitFile(t, repo, "f.txt", "ab\n", "b")

	if _, err := repo.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	c := commitFile(t, repo, "g.txt", "c\n", "c")

	base, err := repo.MergeBase(b, c)
	if err != nil {
		t.Fatalf("MergeBase() error: %v", err)
	}
	if base != a {
		t.Errorf("MergeBase = %s, want %s", base, a)
	}
}

func TestMergeBase_NoCommonAncestorFallsBackToA(t *testing.T) {
	repo := mustInit(t)
	a := commitFile(t, repo, "f.txt", "a\n", "a")

	// Fabricate a second, disjoint root commit in the same object store to
	// simulate two histories with no shared ancestor.
	treeHash, err := repo.Objects.PutTree(TreeMap{})
	if err != nil {
		t.Fatal(err)
	}
	orphan := &Commit{Tree: treeHash, Message: "unrelated root", Author: "Test User", Timestamp: 1, Date: "1"}
	b, err := repo.Objects.PutCommit(orphan)
	if err != nil {
		t.Fatal(err)
	}

	base, err := repo.MergeBase(a, b)
	if err != nil {
		t.Fatalf("MergeBase() error: %v", err)
	}
	if base != a {
		t.Errorf("MergeBase = %s, want fallback to %s", base, a)
	}
}

func TestMerge_FastForward(t *testing.T) {
	repo := mustInit(t)
	base := commitFile(t, repo, "f.txt", "a\n", "base")
	if err := repo.Refs.SetBranch("feature", base); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	tip := commitFile(t, repo, "f.txt", "ab\n", "feature work")

	if _, err := repo.Checkout("main", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}

	result, err := repo.Merge("feature", MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if !result.FastForward {
		t.Error("expected a fast-forward merge")
	}
	if result.CommitHash != tip {
		t.Errorf("CommitHash = %s, want %s", result.CommitHash, tip)
	}
}

func TestMerge_DivergentHistoryCreatesMergeCommit(t *testing.T) {
	repo := mustInit(t)
	base := commitFile(t, repo, "f.txt", "a\n", "base")
	if err := repo.Refs.SetBranch("feature", base); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "f.txt", "ab\n", "feature work")

	if _, err := repo.Checkout("main", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "g.txt", "main work\n", "main work")

	result, err := repo.Merge("feature", MergeOptions{Author: "Test User"})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if result.FastForward {
		t.Error("expected a three-way merge, not a fast-forward")
	}
	c, err := repo.Objects.GetCommit(result.CommitHash)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Parents) != 2 {
		t.Errorf("merge commit should have 2 parents, got %d", len(c.Parents))
	}
}

func TestMerge_ConflictingChangesReportConflicts(t *testing.T) {
	repo := mustInit(t)
	base := commitFile(t, repo, "f.txt", "base\n", "base")
	if err := repo.Refs.SetBranch("feature", base); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "f.txt", "feature version\n", "feature edit")

	if _, err := repo.Checkout("main", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "f.txt", "main version\n", "main edit")

	result, err := repo.Merge("feature", MergeOptions{Author: "Test User"})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0] != "f.txt" {
		t.Errorf("Conflicts = %v, want [f.txt]", result.Conflicts)
	}
}
