// Package gitsource fetches git-hosted study sets.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsRemote reports whether source names a git repository rather than a
// local directory.
func IsRemote(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// LocalPath maps a repository URL to its checkout directory under baseDir:
// baseDir/<host>/<path without .git>. Both https and scp-like
// (git@host:owner/repo.git) URLs are accepted.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") && parsed.Host != "" {
		repoPath := strings.Trim(strings.TrimSuffix(parsed.Path, ".git"), "/")
		if repoPath == "" {
			return "", fmt.Errorf("git URL %s has no repository path", repoURL)
		}
		return filepath.Join(baseDir, parsed.Host, repoPath), nil
	}

	userHost, repoPath, ok := strings.Cut(repoURL, ":")
	if !ok {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	_, host, ok := strings.Cut(userHost, "@")
	repoPath = strings.Trim(strings.TrimSuffix(repoPath, ".git"), "/")
	if !ok || host == "" || repoPath == "" {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	return filepath.Join(baseDir, host, repoPath), nil
}

// Sync clones the repository at url into localPath, or pulls the latest
// changes if a checkout already exists there.
func Sync(ctx context.Context, logger *slog.Logger, url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("cloning study set", "url", url, "path", localPath)
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("failed to create checkout directory for %s: %w", url, err)
		}
		if _, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
	case err == nil:
		logger.Info("pulling study set", "url", url, "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}
	return nil
}
