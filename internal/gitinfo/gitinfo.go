// Package gitinfo derives per-file modification times from the repository
// history, mirroring the renderer's enableGitInfo behavior.
package gitinfo

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/danielewood/blog/internal/logfields"
)

// Resolver maps content-root relative paths to their last commit time.
// A nil Resolver is valid and resolves nothing.
type Resolver struct {
	lastMod map[string]time.Time
}

// Open walks the history of the repository containing contentDir and records
// the newest commit time per content file. One full log pass up front keeps
// per-file lookups O(1); blog histories are small enough that this is cheap.
//
// Sites that are not a git checkout get an empty resolver, not an error:
// git info is an enrichment, never a build requirement.
func Open(repoDir, contentDir string) (*Resolver, error) {
	r := &Resolver{lastMod: make(map[string]time.Time)}

	repo, err := git.PlainOpenWithOptions(repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("No git repository detected, skipping git info", logfields.Path(repoDir), logfields.Error(err))
		return r, nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return r, nil
	}
	contentAbs, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, err
	}
	prefix, err := filepath.Rel(wt.Filesystem.Root(), contentAbs)
	if err != nil || strings.HasPrefix(prefix, "..") {
		slog.Debug("Content directory outside the git worktree, skipping git info", logfields.Path(contentDir))
		return r, nil
	}
	prefix = filepath.ToSlash(prefix) + "/"

	head, err := repo.Head()
	if err != nil {
		return r, nil
	}
	log, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return r, nil
	}
	defer log.Close()

	err = log.ForEach(func(c *object.Commit) error {
		stats, err := c.Stats()
		if err != nil {
			return nil // merge commits and odd objects are not worth failing over
		}
		for _, st := range stats {
			if !strings.HasPrefix(st.Name, prefix) {
				continue
			}
			rel := strings.TrimPrefix(st.Name, prefix)
			if when, seen := r.lastMod[rel]; !seen || c.Author.When.After(when) {
				r.lastMod[rel] = c.Author.When
			}
		}
		return nil
	})
	if err != nil {
		slog.Debug("Git log walk ended early", logfields.Error(err))
	}

	slog.Debug("Git info loaded", slog.Int("files", len(r.lastMod)))
	return r, nil
}

// LastMod implements content.LastModResolver.
func (r *Resolver) LastMod(relPath string) (time.Time, bool) {
	if r == nil {
		return time.Time{}, false
	}
	t, ok := r.lastMod[relPath]
	return t, ok
}
