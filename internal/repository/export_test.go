package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KostasZigo/sit/internal/config"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/index"
	"github.com/KostasZigo/sit/internal/objects"
	"github.com/KostasZigo/sit/testutils"
)

var testTime = time.Date(2024, time.March, 9, 10, 30, 0, 0, time.UTC)

// newTestRepo initializes a repository with user.name and user.email set
// and opens it with a fixed clock.
func newTestRepo(t *testing.T, opts ...Option) *Repository {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, Init(root))

	cfg := config.NewWithFiles(filepath.Join(root, constants.Sit, constants.ConfigFile), "")
	require.NoError(t, cfg.Set(config.ScopeRepository, "user.name", "Alice"))
	require.NoError(t, cfg.Set(config.ScopeRepository, "user.email", "alice@example.com"))

	return openTestRepo(t, root, append([]Option{WithConfig(cfg)}, opts...)...)
}

// openTestRepo opens root with a fixed clock and closes it on cleanup.
func openTestRepo(t *testing.T, root string, opts ...Option) *Repository {
	t.Helper()

	repo, err := Open(root, append([]Option{WithClock(func() time.Time { return testTime })}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// writeFile writes a working-tree file relative to the repository root.
func writeFile(t *testing.T, repo *Repository, rel, content string) {
	t.Helper()
	testutils.CreateTestFile(t, repo.Root(), rel, []byte(content))
}

func readFile(t *testing.T, repo *Repository, rel string) string {
	t.Helper()
	return testutils.ReadTestFile(t, filepath.Join(repo.Root(), filepath.FromSlash(rel)))
}

// commitFile writes, stages and commits one file, returning the commit id.
func commitFile(t *testing.T, repo *Repository, rel, content, message string) string {
	t.Helper()

	writeFile(t, repo, rel, content)
	_, err := repo.Add(rel)
	require.NoError(t, err)

	result, err := repo.Commit(message, false)
	require.NoError(t, err)
	return result.ID
}

func readCommit(t *testing.T, repo *Repository, id string) *objects.Commit {
	t.Helper()
	commit, err := objects.ReadCommit(repo.Store(), id)
	require.NoError(t, err)
	return commit
}

func commitSnapshot(t *testing.T, repo *Repository, id string) []index.Entry {
	t.Helper()
	ci, err := index.FromCommit(repo.Store(), id)
	require.NoError(t, err)
	return ci.Snapshot()
}

func head(t *testing.T, repo *Repository) string {
	t.Helper()
	id, err := repo.Refs().Head()
	require.NoError(t, err)
	return id
}

func master(t *testing.T, repo *Repository) string {
	t.Helper()
	id, err := repo.Refs().MasterID()
	require.NoError(t, err)
	return id
}

// requireKind asserts err is a repository error of the given kind wrapping target.
func requireKind(t *testing.T, err error, kind Kind, target error) {
	t.Helper()
	require.ErrorIs(t, err, target)

	var repoErr *Error
	require.ErrorAs(t, err, &repoErr)
	require.Equal(t, kind, repoErr.Kind)
}

func removeAll(repo *Repository, rel string) error {
	return os.RemoveAll(filepath.Join(repo.Root(), filepath.FromSlash(rel)))
}
