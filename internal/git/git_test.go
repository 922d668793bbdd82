package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/emarron/quaderno/internal/output"
)

// initRepo creates a scratch git repository with one initial commit and
// returns its path. Skips the test when git is unavailable.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
	} {
		if _, err := Run(dir, args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}

	writeFile(t, dir, "README.md", "hola\n")
	if err := Add(dir, "README.md"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := Commit(dir, "inicio"); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantErr       bool
		checkExitCode int
	}{
		{
			name:    "git version succeeds",
			args:    []string{"version"},
			wantErr: false,
		},
		{
			name:          "invalid git command",
			args:          []string{"invalid-command-that-does-not-exist"},
			wantErr:       true,
			checkExitCode: output.ExitSystemError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			out, runErr := Run("", testCase.args...)
			if testCase.wantErr {
				if runErr == nil {
					t.Errorf("Run() expected error, got nil")
					return
				}
				var exitErr *output.ExitError
				if !errors.As(runErr, &exitErr) {
					t.Errorf("Run() error should be *output.ExitError, got %T", runErr)
					return
				}
				if testCase.checkExitCode != 0 && exitErr.Code != testCase.checkExitCode {
					t.Errorf("Run() exit code = %d, want %d", exitErr.Code, testCase.checkExitCode)
				}
			} else {
				if runErr != nil {
					t.Errorf("Run() unexpected error: %v", runErr)
					return
				}
				if out == "" {
					t.Error("Run() expected non-empty output for 'git version'")
				}
			}
		})
	}
}

func TestIsRepo(t *testing.T) {
	repo := initRepo(t)

	if !IsRepo(repo) {
		t.Error("IsRepo() = false inside a repository")
	}
	if IsRepo(t.TempDir()) {
		t.Error("IsRepo() = true outside a repository")
	}
}

func TestRepoRoot(t *testing.T) {
	repo := initRepo(t)

	root, err := RepoRoot(repo)
	if err != nil {
		t.Fatalf("RepoRoot() error: %v", err)
	}
	if !filepath.IsAbs(root) {
		t.Errorf("RepoRoot() = %q, expected absolute path", root)
	}

	if _, err := RepoRoot(t.TempDir()); err == nil {
		t.Error("RepoRoot() expected error outside repository")
	}
}

func TestCurrentBranch(t *testing.T) {
	repo := initRepo(t)

	branch, err := CurrentBranch(repo)
	if err != nil {
		t.Fatalf("CurrentBranch() error: %v", err)
	}
	if branch != "main" {
		t.Errorf("CurrentBranch() = %q, want main", branch)
	}
}

func TestFileHasDiff(t *testing.T) {
	repo := initRepo(t)

	t.Run("clean tracked file", func(t *testing.T) {
		changed, err := FileHasDiff(repo, "README.md")
		if err != nil {
			t.Fatalf("FileHasDiff() error: %v", err)
		}
		if changed {
			t.Error("FileHasDiff() = true for clean tracked file")
		}
	})

	t.Run("modified tracked file", func(t *testing.T) {
		writeFile(t, repo, "README.md", "hola otra vez\n")
		changed, err := FileHasDiff(repo, "README.md")
		if err != nil {
			t.Fatalf("FileHasDiff() error: %v", err)
		}
		if !changed {
			t.Error("FileHasDiff() = false for modified file")
		}
	})

	t.Run("untracked file counts as diff", func(t *testing.T) {
		writeFile(t, repo, "data/textos/2026/01/2026-01-06.txt", "FECHA: 2026-01-06\n")
		changed, err := FileHasDiff(repo, "data/textos/2026/01/2026-01-06.txt")
		if err != nil {
			t.Fatalf("FileHasDiff() error: %v", err)
		}
		if !changed {
			t.Error("FileHasDiff() = false for untracked file")
		}
	})
}

func TestHasStagedChanges(t *testing.T) {
	repo := initRepo(t)

	staged, err := HasStagedChanges(repo)
	if err != nil {
		t.Fatalf("HasStagedChanges() error: %v", err)
	}
	if staged {
		t.Error("HasStagedChanges() = true in clean repository")
	}

	writeFile(t, repo, "data/archivo.json", "[]\n")
	if err := Add(repo, "data/archivo.json"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	staged, err = HasStagedChanges(repo, "data/archivo.json")
	if err != nil {
		t.Fatalf("HasStagedChanges() error: %v", err)
	}
	if !staged {
		t.Error("HasStagedChanges() = false after staging a file")
	}

	staged, err = HasStagedChanges(repo, "README.md")
	if err != nil {
		t.Fatalf("HasStagedChanges() error: %v", err)
	}
	if staged {
		t.Error("HasStagedChanges() = true for a path with nothing staged")
	}
}

func TestCommitAndBranchFlow(t *testing.T) {
	repo := initRepo(t)

	writeFile(t, repo, "data/archivo.json", "[]\n")
	if err := Add(repo, "data/archivo.json"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := Commit(repo, "entrada 2026-01-06 — prueba"); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	out, err := Run(repo, "log", "-1", "--pretty=%s")
	if err != nil {
		t.Fatalf("git log error: %v", err)
	}
	if out != "entrada 2026-01-06 — prueba" {
		t.Errorf("commit subject = %q", out)
	}

	if HasUncommittedChanges(repo) {
		t.Error("HasUncommittedChanges() = true after commit")
	}
}
