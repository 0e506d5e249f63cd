package gitcore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInstallSampleHooks_WritesExecutableScripts(t *testing.T) {
	metaDir := t.TempDir()
	if err := InstallSampleHooks(metaDir); err != nil {
		t.Fatalf("InstallSampleHooks() error: %v", err)
	}
	for _, name := range []string{hookPreCommit, hookPostCommit} {
		info, err := os.Stat(filepath.Join(metaDir, "hooks", name))
		if err != nil {
			t.Fatalf("missing hook %s: %v", name, err)
		}
		if info.Mode()&0o111 == 0 {
			t.Errorf("hook %s is not executable", name)
		}
	}
}

func TestRunPreCommitHook_NonzeroExitRejects(t *testing.T) {
	metaDir := t.TempDir()
	hooksDir := filepath.Join(metaDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	script := []byte("#!/bin/sh\nexit 1\n")
	if err := os.WriteFile(filepath.Join(hooksDir, hookPreCommit), script, 0o755); err != nil {
		t.Fatal(err)
	}

	err := runPreCommitHook(metaDir, t.TempDir())
	if KindOf(err) != ErrHookRejected {
		t.Errorf("error kind = %v, want ErrHookRejected", KindOf(err))
	}
}

func TestRunPreCommitHook_NoHookInstalledPasses(t *testing.T) {
	metaDir := t.TempDir()
	if err := runPreCommitHook(metaDir, t.TempDir()); err != nil {
		t.Errorf("expected no error with no hook installed, got %v", err)
	}
}

func TestRunPostCommitHook_NonzeroExitDoesNotPanic(t *testing.T) {
	metaDir := t.TempDir()
	hooksDir := filepath.Join(metaDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	script := []byte("#!/bin/sh\nexit 1\n")
	if err := os.WriteFile(filepath.Join(hooksDir, hookPostCommit), script, 0o755); err != nil {
		t.Fatal(err)
	}
	runPostCommitHook(metaDir, t.TempDir())
}
