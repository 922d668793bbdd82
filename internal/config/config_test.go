package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/emarron/quaderno/internal/git"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	if _, err := git.Run(dir, "init", "-b", "main"); err != nil {
		t.Fatalf("git init: %v", err)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	repo := initRepo(t)

	cfg, err := Load(repo)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Archive != "data/archivo.json" {
		t.Errorf("Archive = %q", cfg.Archive)
	}
	if cfg.Textos != "data/textos" {
		t.Errorf("Textos = %q", cfg.Textos)
	}
	if cfg.Staging != "state/pending_keywords.json" {
		t.Errorf("Staging = %q", cfg.Staging)
	}
	if cfg.Branch != "main" || cfg.Remote != "origin" {
		t.Errorf("Branch/Remote = %q/%q", cfg.Branch, cfg.Remote)
	}
	if cfg.Model != "gpt-5-mini" {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	repo := initRepo(t)
	yml := "archive: archivo/cuaderno.json\nbranch: publicacion\nmodel: haiku\n"
	if err := os.WriteFile(filepath.Join(repo, FileName), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(repo)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Archive != "archivo/cuaderno.json" {
		t.Errorf("Archive = %q, want override", cfg.Archive)
	}
	if cfg.Branch != "publicacion" {
		t.Errorf("Branch = %q, want override", cfg.Branch)
	}
	if cfg.Model != "haiku" {
		t.Errorf("Model = %q, want override", cfg.Model)
	}
	// Unspecified fields keep defaults.
	if cfg.Textos != "data/textos" {
		t.Errorf("Textos = %q, want default", cfg.Textos)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	repo := initRepo(t)
	if err := os.WriteFile(filepath.Join(repo, FileName), []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(repo); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoadOutsideRepoFails(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() expected error outside a git repository")
	}
}

func TestAbsolutePaths(t *testing.T) {
	cfg := Default("/repo")
	if got := cfg.ArchivePath(); got != filepath.Join("/repo", "data", "archivo.json") {
		t.Errorf("ArchivePath() = %q", got)
	}
	if got := cfg.TextosDir(); got != filepath.Join("/repo", "data", "textos") {
		t.Errorf("TextosDir() = %q", got)
	}
	if got := cfg.StagingPath(); got != filepath.Join("/repo", "state", "pending_keywords.json") {
		t.Errorf("StagingPath() = %q", got)
	}
}
