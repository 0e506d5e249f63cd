package gitcore

import "fmt"

// ErrorKind classifies a CoreError so callers (CLI, tests) can branch on
// failure category without string-matching messages.
type ErrorKind int

const (
	// ErrUnknown is the zero value; never returned deliberately.
	ErrUnknown ErrorKind = iota
	// ErrNotARepository means the .rvs metadata root is missing.
	ErrNotARepository
	// ErrPathNotFound means a caller-supplied path does not exist.
	ErrPathNotFound
	// ErrPathOutsideRepo means a path resolves outside the repository root.
	ErrPathOutsideRepo
	// ErrObjectMissing means the object store has no object for a hash.
	ErrObjectMissing
	// ErrObjectCorrupt means stored object bytes failed to parse.
	ErrObjectCorrupt
	// ErrAmbiguousPrefix means a hex prefix matched more than one object.
	ErrAmbiguousPrefix
	// ErrInvalidRevision means a commit-ish/tree-ish failed to resolve.
	ErrInvalidRevision
	// ErrDirtyWorkingTree means a safety gate rejected an unsafe checkout/switch/merge.
	ErrDirtyWorkingTree
	// ErrBranchExists means a branch create collided with an existing name.
	ErrBranchExists
	// ErrBranchCheckedOutElsewhere means a branch is already the HEAD of another worktree.
	ErrBranchCheckedOutElsewhere
	// ErrHookRejected means a pre-commit hook exited nonzero.
	ErrHookRejected
	// ErrIOFailure means an underlying filesystem call failed.
	ErrIOFailure
)

// CoreError is the single failure shape every engine operation returns.
// The CLI renders it as "fatal: <message>" and maps Kind to an exit code.
type CoreError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CoreError) Unwrap() error { return e.Err }

// newErr builds a CoreError with an optional wrapped cause.
func newErr(kind ErrorKind, cause error, format string, args ...any) *CoreError {
	return &CoreError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the ErrorKind from err, or ErrUnknown if err is not a *CoreError.
func KindOf(err error) ErrorKind {
	var ce *CoreError
	if ce2, ok := err.(*CoreError); ok {
		ce = ce2
	}
	if ce == nil {
		return ErrUnknown
	}
	return ce.Kind
}
