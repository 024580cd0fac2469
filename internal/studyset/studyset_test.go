package studyset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/examprep/internal/storage"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setup(t *testing.T) (*storage.DB, *slog.Logger) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	db, logger := setup(t)
	dir := t.TempDir()
	writeFile(t, dir, "biology.md", "Q: Powerhouse of the cell?\nA: Mitochondria\n\nQ: Unit of heredity?\nA: Gene\n")
	writeFile(t, dir, "chem/acids.md", "Q: pH of pure water?\nA: 7\nC: At 25 degrees\n")
	writeFile(t, dir, "notes.txt", "Q: Ignored\nA: Not markdown\n")
	writeFile(t, dir, ".git/stray.md", "Q: Hidden\nA: Skipped\n")

	report, err := Sync(ctx, logger, db, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Parsed)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 0, report.Deleted)
	assert.Empty(t, report.Errors)

	questions, err := db.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	indexByQuestion := map[string]int{}
	for _, q := range questions {
		indexByQuestion[q.Question] = q.Index
		assert.NotEmpty(t, q.Hash)
	}

	// Edit one question and drop another; the untouched one keeps its index.
	writeFile(t, dir, "biology.md", "Q: Powerhouse of the cell?\nA: Mitochondria\n\nQ: Unit of heredity?\nA: The gene\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "chem/acids.md")))

	report, err = Sync(ctx, logger, db, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 2, report.Deleted)

	questions, err = db.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, indexByQuestion["Powerhouse of the cell?"], questions[0].Index)
	assert.Equal(t, "The gene", questions[1].Answer)
	assert.Greater(t, questions[1].Index, indexByQuestion["pH of pure water?"])
}

func TestSyncSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	db, logger := setup(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "Q: Same\nA: Answer\n")
	writeFile(t, dir, "b.md", "Q: same \nA: answer\n")

	report, err := Sync(ctx, logger, db, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 1, report.Inserted)

	report, err = Sync(ctx, logger, db, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 0, report.Deleted)
}

func TestSyncMissingDir(t *testing.T) {
	db, logger := setup(t)
	_, err := Sync(context.Background(), logger, db, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestResolveLocal(t *testing.T) {
	dir := t.TempDir()
	got, err := Resolve(context.Background(), slog.Default(), dir, "repos")
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
