package publish

import "github.com/emarron/quaderno/internal/git"

// VCS is the version-control surface the pipeline needs. The real
// implementation shells out to git; tests substitute a fake.
type VCS interface {
	CurrentBranch() (string, error)
	FileHasDiff(path string) (bool, error)
	HasStagedChanges(paths ...string) (bool, error)
	Add(paths ...string) error
	Commit(message string) error
	Push(remote, branch string) error
}

// GitVCS implements VCS against a real repository rooted at Root.
// All paths passed to its methods are relative to Root.
type GitVCS struct {
	Root string
}

func (g *GitVCS) CurrentBranch() (string, error) {
	return git.CurrentBranch(g.Root)
}

func (g *GitVCS) FileHasDiff(path string) (bool, error) {
	return git.FileHasDiff(g.Root, path)
}

func (g *GitVCS) HasStagedChanges(paths ...string) (bool, error) {
	return git.HasStagedChanges(g.Root, paths...)
}

func (g *GitVCS) Add(paths ...string) error {
	return git.Add(g.Root, paths...)
}

func (g *GitVCS) Commit(message string) error {
	return git.Commit(g.Root, message)
}

func (g *GitVCS) Push(remote, branch string) error {
	return git.Push(g.Root, remote, branch)
}
