package gitcore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// indexEntryJSON is the on-disk shape of one index record, as specified in
// spec.md §6: the index is a JSON map of path -> {obj_hash}.
type indexEntryJSON struct {
	ObjHash string `json:"obj_hash"`
}

// Index is the staged path -> blob hash mapping. It never implicitly reads
// the object store; callers supply already-computed hashes.
type Index struct {
	path string // e.g. <metaDir>/index
}

// NewIndex returns an Index backed by the file at path.
func NewIndex(path string) *Index {
	return &Index{path: path}
}

// Load reads the index file, returning an empty TreeMap if it does not exist.
func (idx *Index) Load() (TreeMap, error) {
	data, err := os.ReadFile(idx.path)
	if err != nil {
		if os.IsNotExist(err) {
			return TreeMap{}, nil
		}
		return nil, newErr(ErrIOFailure, err, "reading index")
	}

	var raw map[string]indexEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newErr(ErrObjectCorrupt, err, "parsing index")
	}

	tree := make(TreeMap, len(raw))
	for path, entry := range raw {
		tree[path] = Hash(entry.ObjHash)
	}
	return tree, nil
}

// Save atomically persists tree as the index: write to a sibling temp file,
// then rename over the canonical name (spec.md §4.3).
func (idx *Index) Save(tree TreeMap) error {
	raw := make(map[string]indexEntryJSON, len(tree))
	for path, hash := range tree {
		raw[path] = indexEntryJSON{ObjHash: string(hash)}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	dir := filepath.Dir(idx.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newErr(ErrIOFailure, err, "creating index directory")
	}

	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return newErr(ErrIOFailure, err, "creating temp index file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return newErr(ErrIOFailure, err, "writing temp index file")
	}
	if err := tmp.Close(); err != nil {
		return newErr(ErrIOFailure, err, "closing temp index file")
	}
	if err := os.Rename(tmpPath, idx.path); err != nil {
		return newErr(ErrIOFailure, err, "renaming index into place")
	}
	return nil
}

// Clear persists an empty index. Used when an orphan branch is created.
func (idx *Index) Clear() error {
	return idx.Save(TreeMap{})
}
