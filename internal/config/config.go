// Package config resolves the journal's repository configuration.
//
// Each journal repository may carry a quaderno.yml at its root; every
// field is optional and falls back to the conventional layout.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/emarron/quaderno/internal/git"
	"github.com/emarron/quaderno/internal/output"
)

// FileName is the per-repository configuration file, at the repo root.
const FileName = "quaderno.yml"

// Config holds the repository layout and publication settings.
// Paths are repo-relative with forward slashes.
type Config struct {
	// Root is the repository toplevel. Not read from the file; always
	// discovered via git.
	Root string `yaml:"-"`

	Archive string `yaml:"archive"`
	Textos  string `yaml:"textos"`
	Staging string `yaml:"staging"`
	Branch  string `yaml:"branch"`
	Remote  string `yaml:"remote"`
	Model   string `yaml:"model"`
}

// Default returns the conventional layout rooted at root.
func Default(root string) *Config {
	return &Config{
		Root:    root,
		Archive: "data/archivo.json",
		Textos:  "data/textos",
		Staging: "state/pending_keywords.json",
		Branch:  "main",
		Remote:  "origin",
		Model:   "gpt-5-mini",
	}
}

// Load discovers the repository root from dir and merges quaderno.yml
// (when present) over the defaults. Running outside a git repository
// is an error: every quaderno operation ends in a commit.
func Load(dir string) (*Config, error) {
	root, err := git.RepoRoot(dir)
	if err != nil {
		return nil, err
	}

	cfg := Default(root)

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, output.NewSystemErrorWithCause("no pude leer "+FileName, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, output.NewUserError(FileName + " inválido: " + err.Error())
	}
	cfg.merge(&file)
	return cfg, nil
}

func (c *Config) merge(over *Config) {
	if over.Archive != "" {
		c.Archive = over.Archive
	}
	if over.Textos != "" {
		c.Textos = over.Textos
	}
	if over.Staging != "" {
		c.Staging = over.Staging
	}
	if over.Branch != "" {
		c.Branch = over.Branch
	}
	if over.Remote != "" {
		c.Remote = over.Remote
	}
	if over.Model != "" {
		c.Model = over.Model
	}
}

// ArchivePath returns the absolute archive file path.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Root, filepath.FromSlash(c.Archive))
}

// TextosDir returns the absolute source-text directory.
func (c *Config) TextosDir() string {
	return filepath.Join(c.Root, filepath.FromSlash(c.Textos))
}

// StagingPath returns the absolute keyword staging file path.
func (c *Config) StagingPath() string {
	return filepath.Join(c.Root, filepath.FromSlash(c.Staging))
}
