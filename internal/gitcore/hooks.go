package gitcore

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	hookPreCommit  = "pre-commit"
	hookPostCommit = "post-commit"
)

var samplePreCommitHook = []byte(`#!/bin/sh
# Sample pre-commit hook
echo "Running pre-commit hook"
# Add your checks here
# Exit with non-zero status to abort commit
exit 0
`)

var samplePostCommitHook = []byte(`#!/bin/sh
# Sample post-commit hook
echo "Running post-commit hook"
# Add your post-commit actions here
exit 0
`)

// InstallSampleHooks writes the pre-commit and post-commit sample scripts
// into metaDir/hooks, marked executable, matching rvs init's default
// repository layout.
func InstallSampleHooks(metaDir string) error {
	hooksDir := filepath.Join(metaDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return newErr(ErrIOFailure, err, "creating hooks directory")
	}
	if err := os.WriteFile(filepath.Join(hooksDir, hookPreCommit), samplePreCommitHook, 0o755); err != nil {
		return newErr(ErrIOFailure, err, "installing pre-commit hook")
	}
	if err := os.WriteFile(filepath.Join(hooksDir, hookPostCommit), samplePostCommitHook, 0o755); err != nil {
		return newErr(ErrIOFailure, err, "installing post-commit hook")
	}
	return nil
}

// runHook executes hookName from metaDir/hooks if it exists and is
// executable, with RVS_DIR set to metaDir in its environment. It returns
// (ran, exitOK, err): ran is false when no hook is installed, in which case
// the caller should proceed as if the hook passed.
func runHook(metaDir, repoRoot, hookName string) (ran bool, exitOK bool, err error) {
	hookFile := filepath.Join(metaDir, "hooks", hookName)

	info, statErr := os.Stat(hookFile)
	if statErr != nil {
		return false, true, nil
	}
	if info.Mode()&0o111 == 0 {
		return false, true, nil
	}

	//nolint:gosec // G204: hookFile is a fixed, repo-local path under hooks/
	cmd := exec.Command(hookFile)
	cmd.Dir = repoRoot
	cmd.Env = append(os.Environ(), "RVS_DIR="+metaDir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if stdout.Len() > 0 {
		os.Stdout.Write(stdout.Bytes())
	}
	if stderr.Len() > 0 {
		os.Stderr.Write(stderr.Bytes())
	}

	if runErr == nil {
		return true, true, nil
	}
	if _, isExit := runErr.(*exec.ExitError); isExit {
		return true, false, nil
	}
	return true, false, newErr(ErrIOFailure, runErr, "running %s hook", hookName)
}

// runPreCommitHook runs the pre-commit hook, translating a nonzero exit into
// ErrHookRejected so Commit can abort.
func runPreCommitHook(metaDir, repoRoot string) error {
	ran, ok, err := runHook(metaDir, repoRoot, hookPreCommit)
	if err != nil {
		return err
	}
	if ran && !ok {
		return newErr(ErrHookRejected, nil, "pre-commit hook rejected the commit")
	}
	return nil
}

// runPostCommitHook runs the post-commit hook. Its exit status is advisory
// and never fails the commit that already succeeded.
func runPostCommitHook(metaDir, repoRoot string) {
	_, _, _ = runHook(metaDir, repoRoot, hookPostCommit)
}
