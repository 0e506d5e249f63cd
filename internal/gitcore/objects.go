package gitcore

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// maxDecompressedSize caps the size of any single decompressed object,
// guarding against a zip-bomb style corrupt or hostile object on disk.
const maxDecompressedSize = 256 * 1024 * 1024 // 256MB

// ObjectStore is the content-addressed blob/tree/commit store rooted at
// <gitDir>/objects. Objects are fan-out stored at objects/<xx>/<38hex> and
// are immutable once written; duplicate writes are idempotent because the
// object's name is its own content digest.
type ObjectStore struct {
	root string // <gitDir>/objects
}

// NewObjectStore returns an ObjectStore rooted at objectsDir. It does not
// create the directory; callers that initialize a repository do that
// explicitly (see Repository.Init).
func NewObjectStore(objectsDir string) *ObjectStore {
	return &ObjectStore{root: objectsDir}
}

func (s *ObjectStore) objectPath(hash Hash) string {
	h := string(hash)
	return filepath.Join(s.root, h[:2], h[2:])
}

// Put computes the content digest for payload under kind, writes the
// zlib-framed object to disk if not already present, and returns its hash.
// Writes are overwrite-idempotent: an existing object with the same hash is
// never rewritten, since its bytes are by construction identical.
func (s *ObjectStore) Put(payload []byte, kind ObjectKind) (Hash, error) {
	hash := hashObject(string(kind), payload)
	path := s.objectPath(hash)

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", newErr(ErrIOFailure, err, "creating fan-out directory for %s", hash.Short())
	}

	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	full := append([]byte(header), payload...)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(full); err != nil {
		return "", newErr(ErrIOFailure, err, "compressing object %s", hash.Short())
	}
	if err := zw.Close(); err != nil {
		return "", newErr(ErrIOFailure, err, "closing zlib writer for object %s", hash.Short())
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", newErr(ErrIOFailure, err, "writing object %s", hash.Short())
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", newErr(ErrIOFailure, err, "finalizing object %s", hash.Short())
	}

	return hash, nil
}

// Get reads and decompresses the object named by hash, returning its kind
// and payload. Returns ErrObjectMissing if the object does not exist.
func (s *ObjectStore) Get(hash Hash) (ObjectKind, []byte, error) {
	path := s.objectPath(hash)

	//nolint:gosec // G304: path is derived from a validated 40-hex Hash
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, newErr(ErrObjectMissing, nil, "object %s not found", hash.Short())
		}
		return "", nil, newErr(ErrIOFailure, err, "opening object %s", hash.Short())
	}
	defer f.Close()

	full, err := readCompressed(f)
	if err != nil {
		return "", nil, newErr(ErrObjectCorrupt, err, "decompressing object %s", hash.Short())
	}

	nullIdx := bytes.IndexByte(full, 0)
	if nullIdx == -1 {
		return "", nil, newErr(ErrObjectCorrupt, nil, "object %s has no header separator", hash.Short())
	}
	header := string(full[:nullIdx])
	payload := full[nullIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, newErr(ErrObjectCorrupt, nil, "object %s has malformed header %q", hash.Short(), header)
	}
	size, err := strconv.Atoi(parts[1])
	if err != nil || size != len(payload) {
		return "", nil, newErr(ErrObjectCorrupt, nil, "object %s size mismatch: header says %s, got %d bytes", hash.Short(), parts[1], len(payload))
	}

	return ObjectKind(parts[0]), payload, nil
}

// readCompressed decompresses r, rejecting output larger than maxDecompressedSize.
func readCompressed(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zlib reader: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(zr, maxDecompressedSize+1)); err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	if buf.Len() > maxDecompressedSize {
		return nil, fmt.Errorf("decompressed object exceeds %d bytes", maxDecompressedSize)
	}
	return buf.Bytes(), nil
}

// ResolvePrefix enumerates the fan-out directories for a hex query of
// length >= 4 and returns the unique matching hash. It fails with
// ErrAmbiguousPrefix on more than one match and ErrInvalidRevision on zero.
// If restrictKind is non-empty, only objects of that kind are considered.
func (s *ObjectStore) ResolvePrefix(query string, restrictKind ObjectKind) (Hash, error) {
	if len(query) < 4 {
		return "", newErr(ErrInvalidRevision, nil, "prefix %q too short (need >= 4 hex digits)", query)
	}
	query = strings.ToLower(query)

	fanoutPrefix := query[:2]
	rest := query[2:]

	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return "", newErr(ErrIOFailure, err, "reading object store")
	}

	var matches []Hash
	for _, fanout := range dirEntries {
		name := fanout.Name()
		if len(name) != 2 || name == "info" || name == "pack" {
			continue
		}
		if len(query) >= 2 && name != fanoutPrefix {
			continue
		}
		subEntries, err := os.ReadDir(filepath.Join(s.root, name))
		if err != nil {
			continue
		}
		for _, sub := range subEntries {
			if !strings.HasPrefix(sub.Name(), rest) {
				continue
			}
			hash, err := NewHash(name + sub.Name())
			if err != nil {
				continue
			}
			if restrictKind != "" {
				kind, _, err := s.Get(hash)
				if err != nil || kind != restrictKind {
					continue
				}
			}
			matches = append(matches, hash)
		}
	}

	switch len(matches) {
	case 0:
		return "", newErr(ErrInvalidRevision, nil, "no object matches prefix %q", query)
	case 1:
		return matches[0], nil
	default:
		return "", newErr(ErrAmbiguousPrefix, nil, "prefix %q is ambiguous (%d matches)", query, len(matches))
	}
}

// EncodeTree canonically serializes entries (sorted ascending by path) into
// the on-disk tree payload: newline-separated "blob <40hex> <path>" records.
func EncodeTree(tree TreeMap) []byte {
	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		lines = append(lines, fmt.Sprintf("blob %s %s", tree[p], p))
	}
	return []byte(strings.Join(lines, "\n"))
}

// DecodeTree parses a tree payload into a TreeMap. Malformed records are
// rejected loudly (ErrObjectCorrupt) rather than silently dropped, per
// spec.md §9's re-architecture note about the source's ad hoc tree parsing.
func DecodeTree(payload []byte) (TreeMap, error) {
	tree := make(TreeMap)
	if len(payload) == 0 {
		return tree, nil
	}
	for _, line := range strings.Split(string(payload), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 || parts[0] != "blob" {
			return nil, newErr(ErrObjectCorrupt, nil, "malformed tree record: %q", line)
		}
		hash, err := NewHash(parts[1])
		if err != nil {
			return nil, newErr(ErrObjectCorrupt, err, "malformed tree record hash: %q", line)
		}
		tree[parts[2]] = hash
	}
	return tree, nil
}

// PutTree serializes and stores tree, returning its hash.
func (s *ObjectStore) PutTree(tree TreeMap) (Hash, error) {
	return s.Put(EncodeTree(tree), KindTree)
}

// GetTree reads and decodes a tree object.
func (s *ObjectStore) GetTree(hash Hash) (TreeMap, error) {
	kind, payload, err := s.Get(hash)
	if err != nil {
		return nil, err
	}
	if kind != KindTree {
		return nil, newErr(ErrObjectCorrupt, nil, "object %s is a %s, not a tree", hash.Short(), kind)
	}
	return DecodeTree(payload)
}

// EncodeCommit serializes a Commit into its pretty-printed JSON payload,
// unifying Parents down to the legacy parent/merge_parent wire fields for
// on-disk compatibility (spec.md §3).
func EncodeCommit(c *Commit) ([]byte, error) {
	cj := commitJSON{
		Tree:      string(c.Tree),
		Message:   c.Message,
		Timestamp: c.Timestamp,
		Date:      c.Date,
		Author:    c.Author,
	}
	if len(c.Parents) > 0 {
		cj.Parent = string(c.Parents[0])
	}
	if len(c.Parents) > 1 {
		cj.MergeParent = string(c.Parents[1])
	}
	return json.MarshalIndent(cj, "", "  ")
}

// DecodeCommit parses a commit's JSON payload into a Commit.
func DecodeCommit(payload []byte) (*Commit, error) {
	var cj commitJSON
	if err := json.Unmarshal(payload, &cj); err != nil {
		return nil, newErr(ErrObjectCorrupt, err, "invalid commit JSON")
	}
	c := &Commit{
		Tree:      Hash(cj.Tree),
		Message:   cj.Message,
		Author:    cj.Author,
		Timestamp: cj.Timestamp,
		Date:      cj.Date,
	}
	if cj.Parent != "" {
		c.Parents = append(c.Parents, Hash(cj.Parent))
	}
	if cj.MergeParent != "" {
		c.Parents = append(c.Parents, Hash(cj.MergeParent))
	}
	return c, nil
}

// PutCommit serializes and stores c, returning its hash.
func (s *ObjectStore) PutCommit(c *Commit) (Hash, error) {
	payload, err := EncodeCommit(c)
	if err != nil {
		return "", err
	}
	return s.Put(payload, KindCommit)
}

// GetCommit reads and decodes a commit object.
func (s *ObjectStore) GetCommit(hash Hash) (*Commit, error) {
	kind, payload, err := s.Get(hash)
	if err != nil {
		return nil, err
	}
	if kind != KindCommit {
		return nil, newErr(ErrObjectCorrupt, nil, "object %s is a %s, not a commit", hash.Short(), kind)
	}
	return DecodeCommit(payload)
}

// PutBlob stores raw file content and returns its hash.
func (s *ObjectStore) PutBlob(content []byte) (Hash, error) {
	return s.Put(content, KindBlob)
}

// GetBlob reads raw blob content.
func (s *ObjectStore) GetBlob(hash Hash) ([]byte, error) {
	kind, payload, err := s.Get(hash)
	if err != nil {
		return nil, err
	}
	if kind != KindBlob {
		return nil, newErr(ErrObjectCorrupt, nil, "object %s is a %s, not a blob", hash.Short(), kind)
	}
	return payload, nil
}
