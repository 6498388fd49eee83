// Package decksource fetches deck repositories over git so users can share
// custom decks without redistributing the binary.
package decksource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Fetch clones rawURL under cacheDir, or pulls the latest changes if a
// checkout already exists there, and returns the local checkout path.
func Fetch(ctx context.Context, rawURL, cacheDir string) (string, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create deck cache dir: %w", err)
	}

	localPath := filepath.Join(cacheDir, repoDirName(rawURL))

	_, statErr := os.Stat(localPath)
	switch {
	case os.IsNotExist(statErr):
		slog.Info("cloning deck repository", "url", rawURL, "path", localPath)
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:   rawURL,
			Depth: 1,
		})
		if err != nil {
			return "", fmt.Errorf("clone deck repo %s: %w", rawURL, err)
		}
	case statErr == nil:
		slog.Info("updating deck repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return "", fmt.Errorf("open deck repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("worktree for deck repo at %s: %w", localPath, err)
		}
		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return "", fmt.Errorf("pull deck repo at %s: %w", localPath, err)
		}
	default:
		return "", fmt.Errorf("check deck repo path %s: %w", localPath, statErr)
	}

	return localPath, nil
}

// repoDirName derives a stable directory name from a git URL so repeated
// fetches of the same source reuse one checkout.
func repoDirName(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = strings.TrimSuffix(name, ".git")
	name = strings.Trim(name, "/")
	name = strings.NewReplacer("/", "-", ":", "-", "@", "-").Replace(name)
	if name == "" {
		name = "deck"
	}
	return name
}
