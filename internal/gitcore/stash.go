package gitcore

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// StashStore persists the LIFO stash stack at metaDir/stash, independent of
// the object graph (spec.md §4.10).
type StashStore struct {
	path string
}

// NewStashStore returns a StashStore backed by metaDir/stash.
func NewStashStore(metaDir string) *StashStore {
	return &StashStore{path: filepath.Join(metaDir, "stash")}
}

// Load returns the stash stack, index 0 is the top. A corrupt stash file is
// treated the same as a missing one: the error is logged and the stack comes
// back empty rather than failing the caller's command outright.
func (s *StashStore) Load() ([]StashRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newErr(ErrIOFailure, err, "reading stash")
	}
	var records []StashRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("corrupt stash file %s, ignoring: %v", s.path, err)
		return nil, nil
	}
	return records, nil
}

func (s *StashStore) save(records []StashRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newErr(ErrIOFailure, err, "creating stash directory")
	}
	tmp, err := os.CreateTemp(dir, ".stash-*.tmp")
	if err != nil {
		return newErr(ErrIOFailure, err, "creating temp stash file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return newErr(ErrIOFailure, err, "writing temp stash file")
	}
	if err := tmp.Close(); err != nil {
		return newErr(ErrIOFailure, err, "closing temp stash file")
	}
	return os.Rename(tmpPath, s.path)
}

// StashSave records the current branch, commit, Index, and a snapshot of
// working-file hashes, then restores the working tree to the committed
// tree and clears the Index.
func (r *Repository) StashSave(message string) (*StashRecord, error) {
	store := NewStashStore(r.MetaDir)
	records, err := store.Load()
	if err != nil {
		return nil, err
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	index, err := r.Idx.Load()
	if err != nil {
		return nil, err
	}
	committedTree, err := r.TreeOfCommit(head)
	if err != nil {
		return nil, err
	}

	working, err := r.Walk()
	if err != nil {
		return nil, err
	}
	workingSnapshot := TreeMap{}
	for _, p := range working {
		hash, err := r.HashWorkingFile(p)
		if err != nil {
			return nil, err
		}
		workingSnapshot[p] = hash
	}

	record := StashRecord{
		Branch:      branch,
		Commit:      head,
		Index:       index.Clone(),
		WorkingTree: workingSnapshot,
		Message:     message,
		Timestamp:   time.Now().Unix(),
	}

	records = append([]StashRecord{record}, records...)
	if err := store.save(records); err != nil {
		return nil, err
	}

	if err := r.MaterializeTree(workingSnapshot, committedTree); err != nil {
		return nil, err
	}
	if err := r.Idx.Clear(); err != nil {
		return nil, err
	}

	return &record, nil
}

// StashApply restores working-file contents and the Index from the record
// at stackIndex (0 = top) without removing it from the stack.
func (r *Repository) StashApply(stackIndex int) error {
	store := NewStashStore(r.MetaDir)
	records, err := store.Load()
	if err != nil {
		return err
	}
	if stackIndex < 0 || stackIndex >= len(records) {
		return newErr(ErrInvalidRevision, nil, "no stash entry at index %d", stackIndex)
	}
	record := records[stackIndex]

	currentTree, err := r.Idx.Load()
	if err != nil {
		return err
	}
	if err := r.MaterializeTree(currentTree, record.WorkingTree); err != nil {
		return err
	}
	return r.Idx.Save(record.Index)
}

// StashDrop removes one record from the stack.
func (r *Repository) StashDrop(stackIndex int) error {
	store := NewStashStore(r.MetaDir)
	records, err := store.Load()
	if err != nil {
		return err
	}
	if stackIndex < 0 || stackIndex >= len(records) {
		return newErr(ErrInvalidRevision, nil, "no stash entry at index %d", stackIndex)
	}
	records = append(records[:stackIndex], records[stackIndex+1:]...)
	return store.save(records)
}

// StashPop applies then drops the record at stackIndex.
func (r *Repository) StashPop(stackIndex int) error {
	if err := r.StashApply(stackIndex); err != nil {
		return err
	}
	return r.StashDrop(stackIndex)
}

// StashList returns all stash records, top first.
func (r *Repository) StashList() ([]StashRecord, error) {
	return NewStashStore(r.MetaDir).Load()
}
