package gitcore

import (
	"os"
	"path/filepath"
	"strings"
)

// MetaDirName is the name of the repository metadata root, analogous to
// Git's ".git". In an additional worktree this is a *file* (not a
// directory) pointing back at the worktree's metadata directory
// (spec.md §3, §4.11).
const MetaDirName = ".rvs"

// RepoKind distinguishes the two ways a repository handle can be opened,
// per spec.md §9's "repo-open polymorphism" redesign note: callers should
// branch on an explicit field, not on disk shape, at unrelated call sites.
type RepoKind int

const (
	// KindMain is the primary worktree: MetaDir is a real .rvs directory.
	KindMain RepoKind = iota
	// KindWorktree is an additional worktree opened through a .rvs file.
	KindWorktree
)

// Repository is a handle bundling every path and sub-store an engine
// operation needs, threaded explicitly rather than relying on globals
// (spec.md §9's "no global mutable state" note).
type Repository struct {
	RepoKind RepoKind

	RootDir string // working tree root (repo root, or worktree root)

	MainMetaDir string // the main repository's .rvs directory (objects/refs live here)
	MetaDir     string // this worktree's own metadata dir (HEAD/index live here); == MainMetaDir for KindMain
	WorktreeName string // empty for KindMain

	Objects *ObjectStore
	Refs    *RefStore
	Idx     *Index
}

// Open locates the repository containing path (walking up parent
// directories, like Git) and returns a Repository handle wired for either
// the main repo or a worktree, depending on whether the metadata root is a
// directory or a file.
func Open(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "resolving path %s", path)
	}

	current := absPath
	for {
		marker := filepath.Join(current, MetaDirName)
		info, err := os.Stat(marker)
		if err == nil {
			if info.IsDir() {
				return openMain(current, marker)
			}
			return openWorktree(current, marker)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil, newErr(ErrNotARepository, nil, "not a rvs repository (or any parent up to mount point): %s", path)
		}
		current = parent
	}
}

func openMain(rootDir, metaDir string) (*Repository, error) {
	repo := &Repository{
		RepoKind:    KindMain,
		RootDir:     rootDir,
		MainMetaDir: metaDir,
		MetaDir:     metaDir,
	}
	repo.wire()
	return repo, nil
}

// openWorktree follows the .rvs file ("rvsdir: <path>") to the worktree's
// metadata directory, then that directory's "gitdir" file back to the main
// repository's metadata directory, mirroring findGitDirectory/handleGitFile
// in the teacher's repository-open logic.
func openWorktree(rootDir, markerFile string) (*Repository, error) {
	content, err := os.ReadFile(markerFile)
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "reading %s", markerFile)
	}
	line := strings.TrimSpace(string(content))
	wtMetaDir, ok := strings.CutPrefix(line, "rvsdir: ")
	if !ok {
		return nil, newErr(ErrObjectCorrupt, nil, "invalid %s file format: %q", MetaDirName, line)
	}
	if !filepath.IsAbs(wtMetaDir) {
		wtMetaDir = filepath.Join(filepath.Dir(markerFile), wtMetaDir)
	}
	wtMetaDir = filepath.Clean(wtMetaDir)

	gitdirFile := filepath.Join(wtMetaDir, "gitdir")
	mainDirBytes, err := os.ReadFile(gitdirFile)
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "reading worktree gitdir file")
	}
	mainMetaDir := strings.TrimSpace(string(mainDirBytes))

	repo := &Repository{
		RepoKind:     KindWorktree,
		RootDir:      rootDir,
		MainMetaDir:  mainMetaDir,
		MetaDir:      wtMetaDir,
		WorktreeName: filepath.Base(wtMetaDir),
	}
	repo.wire()
	return repo, nil
}

func (r *Repository) wire() {
	r.Objects = NewObjectStore(filepath.Join(r.MainMetaDir, "objects"))
	r.Refs = NewRefStore(filepath.Join(r.MainMetaDir, "refs", "heads"), filepath.Join(r.MetaDir, "HEAD"))
	r.Idx = NewIndex(filepath.Join(r.MetaDir, "index"))
}

// Init creates a new main repository rooted at path. If one already exists
// it is left untouched (matching `rvs init` being safe to re-run).
func Init(path, defaultBranch string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newErr(ErrIOFailure, err, "resolving path %s", path)
	}
	metaDir := filepath.Join(absPath, MetaDirName)

	if _, err := os.Stat(metaDir); err == nil {
		return openMain(absPath, metaDir)
	}

	dirs := []string{
		metaDir,
		filepath.Join(metaDir, "objects"),
		filepath.Join(metaDir, "objects", "info"),
		filepath.Join(metaDir, "objects", "pack"),
		filepath.Join(metaDir, "refs"),
		filepath.Join(metaDir, "refs", "heads"),
		filepath.Join(metaDir, "refs", "tags"),
		filepath.Join(metaDir, "branches"),
		filepath.Join(metaDir, "hooks"),
		filepath.Join(metaDir, "worktrees"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, newErr(ErrIOFailure, err, "creating %s", d)
		}
	}

	if defaultBranch == "" {
		defaultBranch = "main"
	}
	if err := os.WriteFile(filepath.Join(metaDir, "HEAD"), []byte("ref: refs/heads/"+defaultBranch), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "writing HEAD")
	}

	config := "[core]\n\trepositoryformatversion = 0\n\tfilemode = true\n\tbare = false\n\tlogallrefupdates = true\n"
	if err := os.WriteFile(filepath.Join(metaDir, "config"), []byte(config), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "writing config")
	}

	desc := "Unnamed repository; edit this file 'description' to name the repository.\n"
	if err := os.WriteFile(filepath.Join(metaDir, "description"), []byte(desc), 0o644); err != nil {
		return nil, newErr(ErrIOFailure, err, "writing description")
	}

	repo := &Repository{RepoKind: KindMain, RootDir: absPath, MainMetaDir: metaDir, MetaDir: metaDir}
	repo.wire()
	if err := repo.Idx.Clear(); err != nil {
		return nil, err
	}
	if err := InstallSampleHooks(metaDir); err != nil {
		return nil, err
	}

	return repo, nil
}

// NormalizePath resolves raw (which may be relative, contain "./" etc.)
// against the repository root and returns a forward-slash path relative to
// it. Paths that resolve outside the repository root are rejected
// (spec.md §4.4).
func (r *Repository) NormalizePath(raw string) (string, error) {
	abs := raw
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.RootDir, raw)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", newErr(ErrPathOutsideRepo, nil, "path %q is outside the repository", raw)
	}
	return filepath.ToSlash(rel), nil
}

// AbsPath returns the absolute filesystem path for a repo-relative path.
func (r *Repository) AbsPath(relPath string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(relPath))
}

// CurrentBranch returns the branch name HEAD points to, or "" if detached.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Refs.CurrentHead()
	if err != nil {
		return "", err
	}
	if !head.Symbolic {
		return "", nil
	}
	return head.Branch, nil
}

// HeadCommit resolves HEAD to a commit hash, or "" if HEAD is orphan/empty.
func (r *Repository) HeadCommit() (Hash, error) {
	head, err := r.Refs.CurrentHead()
	if err != nil {
		return "", err
	}
	return head.Commit, nil
}

// TreeOfCommit returns the TreeMap for a commit's tree, or an empty TreeMap
// if hash is "" (no commit yet).
func (r *Repository) TreeOfCommit(hash Hash) (TreeMap, error) {
	if hash == "" {
		return TreeMap{}, nil
	}
	c, err := r.Objects.GetCommit(hash)
	if err != nil {
		return nil, err
	}
	return r.Objects.GetTree(c.Tree)
}

// ResolveCommitish resolves a user-supplied string to a commit hash per
// spec.md §4.2's ordering: literal HEAD, branch name, exact hex, prefix hex.
// "HEAD~N" walks N first parents, as used by Reset.
func (r *Repository) ResolveCommitish(ref string) (Hash, error) {
	if ref == "HEAD" {
		return r.HeadCommit()
	}
	if base, n, ok := parseHeadTilde(ref); ok {
		start, err := r.ResolveCommitish(base)
		if err != nil {
			return "", err
		}
		return r.walkFirstParents(start, n)
	}
	if r.Refs.BranchExists(ref) {
		return r.Refs.ResolveBranch(ref)
	}
	if hash, err := NewHash(ref); err == nil {
		if _, _, err := r.Objects.Get(hash); err == nil {
			return hash, nil
		}
	}
	if len(ref) >= 4 {
		if hash, err := r.Objects.ResolvePrefix(ref, KindCommit); err == nil {
			return hash, nil
		}
	}
	return "", newErr(ErrInvalidRevision, nil, "%q did not resolve to a commit", ref)
}

// ResolveTreeish resolves ref to a tree, accepting direct tree hashes in
// addition to everything ResolveCommitish accepts, unwrapping commits to
// their tree (spec.md §4.2).
func (r *Repository) ResolveTreeish(ref string) (Hash, TreeMap, error) {
	if hash, err := NewHash(ref); err == nil {
		if kind, payload, err := r.Objects.Get(hash); err == nil && kind == KindTree {
			tree, err := DecodeTree(payload)
			return hash, tree, err
		}
	}
	if len(ref) >= 4 {
		if hash, err := r.Objects.ResolvePrefix(ref, KindTree); err == nil {
			tree, err := r.Objects.GetTree(hash)
			return hash, tree, err
		}
	}
	commitHash, err := r.ResolveCommitish(ref)
	if err != nil {
		return "", nil, err
	}
	c, err := r.Objects.GetCommit(commitHash)
	if err != nil {
		return "", nil, err
	}
	tree, err := r.Objects.GetTree(c.Tree)
	return c.Tree, tree, err
}

func (r *Repository) walkFirstParents(start Hash, n int) (Hash, error) {
	current := start
	for i := 0; i < n; i++ {
		if current == "" {
			return "", newErr(ErrInvalidRevision, nil, "not enough ancestors for ~%d", n)
		}
		c, err := r.Objects.GetCommit(current)
		if err != nil {
			return "", err
		}
		current = c.Parent()
	}
	return current, nil
}

func parseHeadTilde(ref string) (base string, n int, ok bool) {
	idx := strings.Index(ref, "~")
	if idx == -1 {
		return "", 0, false
	}
	base = ref[:idx]
	suffix := ref[idx+1:]
	if suffix == "" {
		return base, 1, true
	}
	n = 0
	for _, ch := range suffix {
		if ch < '0' || ch > '9' {
			return "", 0, false
		}
		n = n*10 + int(ch-'0')
	}
	return base, n, true
}

// EnsureExists returns ErrNotARepository if the metadata root is missing,
// matching spec.md §4/§7's "_ensure_repo_exists" check.
func (r *Repository) EnsureExists() error {
	if _, err := os.Stat(r.MainMetaDir); err != nil {
		return newErr(ErrNotARepository, nil, "not a rvs repository. Run 'rvs init' first.")
	}
	return nil
}
