package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KostasZigo/sit/internal/constants"
)

// RandomString generates a random hex string of n bytes
func RandomString(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// RandomHash generates a random 40-character SHA-1 hash
func RandomHash() string {
	return RandomString(constants.HashByteLength)
}

// SetupTestRepoWithSitDir creates a temporary directory with .sit/objects structure.
// This is useful for tests that need the object store but not full initialization.
func SetupTestRepoWithSitDir(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	objectsDir := filepath.Join(repoPath, constants.Sit, constants.Objects)

	if err := os.MkdirAll(objectsDir, constants.DirPerms); err != nil {
		t.Fatalf("Failed to create %s/%s: %v", constants.Sit, constants.Objects, err)
	}

	return repoPath
}

// CreateTestFile creates a file with given content under dir, creating parent
// directories for nested names. Returns the full path to the created file.
func CreateTestFile(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()

	filePath := filepath.Join(dir, filepath.FromSlash(filename))
	if err := os.MkdirAll(filepath.Dir(filePath), constants.DirPerms); err != nil {
		t.Fatalf("Failed to create parent of %s: %v", filename, err)
	}
	if err := os.WriteFile(filePath, content, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}

	return filePath
}

// CreateSparseFile creates a file of the given size without writing its bytes.
func CreateSparseFile(t *testing.T, dir, filename string, size int64) string {
	t.Helper()

	filePath := filepath.Join(dir, filepath.FromSlash(filename))
	f, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create sparse file %s: %v", filename, err)
	}
	defer f.Close()

	if err := f.Truncate(size); err != nil {
		t.Fatalf("Failed to size sparse file %s: %v", filename, err)
	}

	return filePath
}

// ReadTestFile returns a file's content as string, failing the test on error.
func ReadTestFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(content)
}

// AssertFileExists checks that a file exists at the given path.
// Fails the test if the file doesn't exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected file to exist at %s", path)
	}
}

// AssertFileNotExists checks that a file does NOT exist at the given path.
// Fails the test if the file exists.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to NOT exist at %s", path)
	}
}

// AssertDirExists checks that a directory exists at the given path.
// Fails the test if the directory doesn't exist.
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected directory to exist at %s", path)
		return
	}
	if err != nil {
		t.Errorf("Failed to stat directory %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory, but it's a file", path)
	}
}

// AssertRepositoryStructure validates a freshly initialized .sit directory.
// Verifies objects/ and refs/heads/ exist and HEAD and master hold the empty ref.
func AssertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()

	sitDir := filepath.Join(repoPath, constants.Sit)
	AssertDirExists(t, sitDir)

	expectedDirs := []string{
		constants.Objects,
		constants.Refs,
		filepath.Join(constants.Refs, constants.Heads),
	}
	for _, dir := range expectedDirs {
		AssertDirExists(t, filepath.Join(sitDir, dir))
	}

	for _, ref := range []string{
		constants.Head,
		filepath.Join(constants.Refs, constants.Heads, constants.DefaultBranch),
	} {
		refPath := filepath.Join(sitDir, ref)
		AssertFileExists(t, refPath)

		content, err := os.ReadFile(refPath)
		if err != nil {
			t.Fatalf("Failed to read %s file: %v", ref, err)
		}
		if strings.TrimSpace(string(content)) != constants.EmptyRef {
			t.Errorf("%s content = %q, want %q", ref, content, constants.EmptyRef)
		}
	}

	for _, file := range []string{constants.CommitMsg, constants.IndexFile, constants.ConfigFile} {
		AssertFileExists(t, filepath.Join(sitDir, file))
	}
}
