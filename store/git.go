package store

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// GitStore 在写入与删除文件的同时更新所在 git 仓库的暂存区
type GitStore struct {
	*OSStore
	repo     *git.Repository
	worktree *git.Worktree
	root     string
	logger   *slog.Logger
}

// OpenGitStore 从 path 向上查找 .git 并打开仓库
func OpenGitStore(path string, logger *slog.Logger) (*GitStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &GitStore{
		OSStore:  NewOSStore(),
		repo:     repo,
		worktree: wt,
		root:     root,
		logger:   logger,
	}, nil
}

// Root 返回仓库工作区根目录
func (s *GitStore) Root() string {
	return s.root
}

func (s *GitStore) Write(path string, data []byte) error {
	rel, err := s.relPath(path)
	if err != nil {
		return err
	}
	if err := s.OSStore.Write(path, data); err != nil {
		return err
	}
	if _, err := s.worktree.Add(rel); err != nil {
		return fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	s.logger.Debug("staged file", "path", rel)
	return nil
}

func (s *GitStore) Remove(path string) error {
	rel, err := s.relPath(path)
	if err != nil {
		return err
	}
	if _, err := s.worktree.Remove(rel); err != nil {
		// 未被跟踪的文件只需从磁盘删除
		if errors.Is(err, index.ErrEntryNotFound) {
			return s.OSStore.Remove(path)
		}
		return fmt.Errorf("failed to remove %s from index: %w", rel, err)
	}
	s.logger.Debug("removed file from index", "path", rel)
	return nil
}

func (s *GitStore) relPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", path, s.root)
	}
	return filepath.ToSlash(rel), nil
}
