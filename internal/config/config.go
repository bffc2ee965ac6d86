package config

import (
	"path/filepath"
)

// On-disk layout of a repository.
const (
	MarkerFile    = "config.txt"
	CommitsDir    = "commits"
	MessageSuffix = ".msg"

	FormatVersion = "1.0"
)

const (
	DefaultCheckoutSuffix = ".decrypted"
)

// RepoConfig resolves the fixed paths of a repository rooted at Root.
type RepoConfig struct {
	Root string
}

func NewRepoConfig(root string) *RepoConfig {
	return &RepoConfig{Root: root}
}

// WorkingDir is the working area holding the current copy of each tracked file.
func (c *RepoConfig) WorkingDir() string { return c.Root }

func (c *RepoConfig) CommitsDir() string { return filepath.Join(c.Root, CommitsDir) }

func (c *RepoConfig) MarkerPath() string { return filepath.Join(c.Root, MarkerFile) }

// TrackedPath returns the working-area path of a tracked file.
func (c *RepoConfig) TrackedPath(name string) string { return filepath.Join(c.Root, name) }

// CommitPath returns the commit-store path of an entry.
func (c *RepoConfig) CommitPath(entry string) string { return filepath.Join(c.CommitsDir(), entry) }
