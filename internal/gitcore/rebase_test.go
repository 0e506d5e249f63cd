package gitcore

import "testing"

func TestRebase_ReplaysCommitsOntoUpstream(t *testing.T) {
	repo := mustInit(t)
	base := commitFile(t, repo, "f.txt", "base\n", "base")
	if err := repo.Refs.SetBranch("feature", base); err != nil {
		t.Fatal(err)
	}

	commitFile(t, repo, "g.txt", "main work\n", "main work")

	if _, err := repo.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, "h.txt", "feature one\n", "feature one")
	commitFile(t, repo, "h.txt", "feature two\n", "feature two")

	result, err := repo.Rebase("main", "Test User")
	if err != nil {
		t.Fatalf("Rebase() error: %v", err)
	}
	if result.Replayed != 2 {
		t.Errorf("Replayed = %d, want 2", result.Replayed)
	}

	c, err := repo.Objects.GetCommit(result.FinalHash)
	if err != nil {
		t.Fatal(err)
	}
	mainTip, err := repo.ResolveCommitish("main")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Parents) == 0 {
		t.Fatal("rebased commit should have a parent")
	}
	root := c
	for len(root.Parents) > 0 {
		p, err := repo.Objects.GetCommit(root.Parents[0])
		if err != nil {
			t.Fatal(err)
		}
		if root.Parents[0] == mainTip {
			return
		}
		root = p
	}
	t.Error("rebased history never reaches main's tip")
}

func TestRebase_NoOpWhenAlreadyUpToDate(t *testing.T) {
	repo := mustInit(t)
	base := commitFile(t, repo, "f.txt", "base\n", "base")
	if err := repo.Refs.SetBranch("feature", base); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}

	result, err := repo.Rebase("main", "Test User")
	if err != nil {
		t.Fatalf("Rebase() error: %v", err)
	}
	if !result.NoOp {
		t.Error("expected NoOp when feature has no commits ahead of main")
	}
}
