// Package git provides the Git operations the quaderno CLI shells out for.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/emarron/quaderno/internal/output"
)

// Run executes a git command in dir ("" means the current directory)
// and returns trimmed stdout. Failures carry git's stderr in the
// message and map to a system-error exit code.
func Run(dir string, args ...string) (string, error) {
	return RunContext(context.Background(), dir, args...)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git no encontrado: instala git y asegúrate de que esté en PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git falló: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo reports whether dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := Run(dir, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the toplevel directory of the repository containing dir.
func RepoRoot(dir string) (string, error) {
	root, err := Run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewUserError("no estás dentro de un repositorio git")
	}
	return root, nil
}

// CurrentBranch returns the current branch name.
// Fails on detached HEAD or outside a repository.
func CurrentBranch(dir string) (string, error) {
	branch, err := Run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("no pude determinar la rama actual", err)
	}
	return branch, nil
}

// Add stages the given paths.
func Add(dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := Run(dir, args...)
	return err
}

// Commit records the currently staged changes with the given message.
func Commit(dir, message string) error {
	_, err := Run(dir, "commit", "-m", message)
	return err
}

// Push pushes the branch to the remote.
func Push(dir, remote, branch string) error {
	_, err := Run(dir, "push", remote, branch)
	return err
}

// FileHasDiff reports whether path differs from HEAD, staged or not.
// An untracked file counts as a diff: it has content HEAD lacks.
func FileHasDiff(dir, path string) (bool, error) {
	tracked, err := Run(dir, "ls-files", "--", path)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(tracked) == "" {
		return true, nil
	}

	out, err := Run(dir, "status", "--porcelain", "--", path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// HasStagedChanges reports whether any of the given paths (all paths
// when none are given) have changes in the index relative to HEAD.
func HasStagedChanges(dir string, paths ...string) (bool, error) {
	args := []string{"diff", "--cached", "--name-only"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	out, err := Run(dir, args...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// HasUncommittedChanges reports whether the working tree has staged or
// unstaged changes anywhere.
func HasUncommittedChanges(dir string) bool {
	out, err := Run(dir, "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}
