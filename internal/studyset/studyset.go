// Package studyset loads study-set questions from markdown files into the
// question bank.
package studyset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/examprep/internal/domain"
	"github.com/conorfennell/examprep/internal/gitsource"
	"github.com/conorfennell/examprep/internal/knol"
	"github.com/conorfennell/examprep/internal/parser"
	"github.com/conorfennell/examprep/internal/storage"
)

// Bank is the question storage a study set is reconciled into.
type Bank interface {
	FindQuestionByHash(ctx context.Context, hash string) (domain.Question, error)
	InsertQuestion(ctx context.Context, q domain.Question) (int, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	DeleteQuestionByHash(ctx context.Context, hash string) error
}

// Report summarises one reconciliation.
type Report struct {
	Parsed   int
	Inserted int
	Deleted  int
	Errors   []error
}

// Resolve returns the local directory holding the study set named by
// source, cloning or pulling it into reposDir first when it is a git URL.
func Resolve(ctx context.Context, logger *slog.Logger, source, reposDir string) (string, error) {
	if !gitsource.IsRemote(source) {
		return source, nil
	}
	dir, err := gitsource.LocalPath(reposDir, source)
	if err != nil {
		return "", err
	}
	if err := gitsource.Sync(ctx, logger, source, dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Sync reconciles the markdown files under dir with the bank. New questions
// are inserted and get the next free index; questions no longer present
// are deleted. Unchanged questions keep their index, so review state keyed
// by it survives edits elsewhere in the set. Per-file and per-question
// failures are collected in the report; only a failure to walk dir or to
// list the bank is returned as an error.
func Sync(ctx context.Context, logger *slog.Logger, bank Bank, dir string) (Report, error) {
	var report Report
	found := make(map[string]bool)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		questions, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		for _, q := range questions {
			q.Hash = knol.Hash(q)
			report.Parsed++
			if found[q.Hash] {
				logger.Debug("duplicate question skipped", "hash", q.Hash, "path", path)
				continue
			}
			found[q.Hash] = true

			_, findErr := bank.FindQuestionByHash(ctx, q.Hash)
			if findErr == nil {
				continue
			}
			if !errors.Is(findErr, storage.ErrNotFound) {
				report.Errors = append(report.Errors, fmt.Errorf("db check for %s: %w", q.Hash, findErr))
				continue
			}
			index, insertErr := bank.InsertQuestion(ctx, q)
			if insertErr != nil {
				report.Errors = append(report.Errors, fmt.Errorf("db insert for %s: %w", q.Hash, insertErr))
				continue
			}
			logger.Debug("new question", "hash", q.Hash, "index", index)
			report.Inserted++
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("walking study set %s: %w", dir, walkErr)
	}

	existing, err := bank.ListQuestions(ctx)
	if err != nil {
		return report, err
	}
	for _, q := range existing {
		if found[q.Hash] {
			continue
		}
		if err := bank.DeleteQuestionByHash(ctx, q.Hash); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("db delete for %s: %w", q.Hash, err))
			continue
		}
		logger.Debug("orphaned question deleted", "hash", q.Hash, "index", q.Index)
		report.Deleted++
	}

	logger.Info("study set reconciled",
		"path", dir,
		"parsed", report.Parsed,
		"inserted", report.Inserted,
		"deleted", report.Deleted,
		"errors", len(report.Errors),
	)
	return report, nil
}
