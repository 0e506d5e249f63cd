package gitcore

import "testing"

func TestPatternMatcher_SimpleGlob(t *testing.T) {
	m := NewPatternMatcher([]string{"*.log"})
	if !m.Match("debug.log", false) {
		t.Error("expected debug.log to match *.log")
	}
	if m.Match("debug.txt", false) {
		t.Error("expected debug.txt not to match *.log")
	}
}

func TestPatternMatcher_Negation(t *testing.T) {
	m := NewPatternMatcher([]string{"*.log", "!keep.log"})
	if m.Match("keep.log", false) {
		t.Error("expected keep.log to be un-excluded by the negated pattern")
	}
	if !m.Match("other.log", false) {
		t.Error("expected other.log to still match *.log")
	}
}

func TestPatternMatcher_DirOnly(t *testing.T) {
	m := NewPatternMatcher([]string{"build/"})
	if !m.Match("build", true) {
		t.Error("expected build/ to match the directory build")
	}
	if m.Match("build", false) {
		t.Error("expected build/ not to match a non-directory named build")
	}
}

func TestPatternMatcher_DoubleStarMatchesNestedPaths(t *testing.T) {
	m := NewPatternMatcher([]string{"**/vendor/**"})
	if !m.Match("a/b/vendor/pkg/file.go", false) {
		t.Error("expected **/vendor/** to match a nested vendor path")
	}
	if m.Match("a/b/other/file.go", false) {
		t.Error("expected **/vendor/** not to match a non-vendor path")
	}
}

func TestPatternMatcher_AnchoredPattern(t *testing.T) {
	m := NewPatternMatcher([]string{"/root.txt"})
	if !m.Match("root.txt", false) {
		t.Error("expected /root.txt to match the file at repo root")
	}
	if m.Match("sub/root.txt", false) {
		t.Error("expected /root.txt not to match a nested file of the same name")
	}
}

func TestPatternMatcher_LaterPatternOverridesEarlier(t *testing.T) {
	m := NewPatternMatcher([]string{"!a.txt", "a.txt"})
	if !m.Match("a.txt", false) {
		t.Error("expected the later un-negated pattern to win")
	}
}
