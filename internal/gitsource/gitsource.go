// Package gitsource keeps a local checkout of a content-pack repository.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
)

// Sync clones the content pack at url into localPath if it is not there
// yet, or pulls the latest changes if it is. Progress output goes to w,
// which may be nil.
func Sync(ctx context.Context, url, localPath string, w io.Writer) error {
	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Info("Cloning content pack", "url", url, "path", localPath)
		if _, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:      url,
			Progress: w,
		}); err != nil {
			return fmt.Errorf("failed to clone content pack %s: %w", url, err)
		}
	case err == nil:
		slog.Info("Pulling content pack", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open content pack at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for content pack at %s: %w", localPath, err)
		}
		err = worktree.PullContext(ctx, &git.PullOptions{
			RemoteName: "origin",
			Progress:   w,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull content pack at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	slog.Info("Content pack up to date", "path", localPath)
	return nil
}
