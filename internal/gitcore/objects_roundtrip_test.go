package gitcore

import (
	"testing"

	"pgregory.net/rapid"
)

// TestEncodeDecodeTree_RoundTrips checks that any TreeMap of valid 40-hex
// blob hashes keyed by non-empty paths survives an EncodeTree/DecodeTree
// round trip unchanged, across generated inputs.
func TestEncodeDecodeTree_RoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		hexChars := "0123456789abcdef"
		hashGen := rapid.StringOfN(rapid.RuneFrom([]rune(hexChars)), 40, 40, -1)
		pathGen := rapid.StringMatching(`[a-z][a-z0-9_/]{0,20}`)

		n := rapid.IntRange(0, 8).Draw(rt, "n")
		tree := make(TreeMap, n)
		for i := 0; i < n; i++ {
			path := pathGen.Draw(rt, "path")
			hash := hashGen.Draw(rt, "hash")
			tree[path] = Hash(hash)
		}

		payload := EncodeTree(tree)
		decoded, err := DecodeTree(payload)
		if err != nil {
			rt.Fatalf("DecodeTree() error: %v", err)
		}
		if len(decoded) != len(tree) {
			rt.Fatalf("decoded %d entries, want %d", len(decoded), len(tree))
		}
		for path, hash := range tree {
			if decoded[path] != hash {
				rt.Fatalf("decoded[%q] = %q, want %q", path, decoded[path], hash)
			}
		}
	})
}

func TestEncodeDecodeCommit_RoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := &Commit{
			Tree:      Hash(rapid.StringOfN(rapid.RuneFrom([]rune("0123456789abcdef")), 40, 40, -1).Draw(rt, "tree")),
			Message:   rapid.StringMatching(`[ -~]{0,80}`).Draw(rt, "message"),
			Author:    rapid.StringMatching(`[a-zA-Z ]{1,20}`).Draw(rt, "author"),
			Timestamp: rapid.Int64Range(0, 2_000_000_000).Draw(rt, "timestamp"),
			Date:      rapid.StringMatching(`[0-9T:Z-]{1,25}`).Draw(rt, "date"),
		}
		if rapid.Bool().Draw(rt, "hasParent") {
			c.Parents = append(c.Parents, Hash(rapid.StringOfN(rapid.RuneFrom([]rune("0123456789abcdef")), 40, 40, -1).Draw(rt, "parent")))
			if rapid.Bool().Draw(rt, "hasMergeParent") {
				c.Parents = append(c.Parents, Hash(rapid.StringOfN(rapid.RuneFrom([]rune("0123456789abcdef")), 40, 40, -1).Draw(rt, "mergeParent")))
			}
		}

		payload, err := EncodeCommit(c)
		if err != nil {
			rt.Fatalf("EncodeCommit() error: %v", err)
		}
		decoded, err := DecodeCommit(payload)
		if err != nil {
			rt.Fatalf("DecodeCommit() error: %v", err)
		}
		if decoded.Tree != c.Tree || decoded.Message != c.Message || decoded.Author != c.Author ||
			decoded.Timestamp != c.Timestamp || decoded.Date != c.Date {
			rt.Fatalf("decoded commit = %+v, want %+v", decoded, c)
		}
		if len(decoded.Parents) != len(c.Parents) {
			rt.Fatalf("decoded %d parents, want %d", len(decoded.Parents), len(c.Parents))
		}
		for i := range c.Parents {
			if decoded.Parents[i] != c.Parents[i] {
				rt.Fatalf("decoded.Parents[%d] = %q, want %q", i, decoded.Parents[i], c.Parents[i])
			}
		}
	})
}
