package objects

import (
	"testing"
	"time"

	"github.com/KostasZigo/sit/internal/compression"
	"github.com/KostasZigo/sit/testutils"
	"github.com/KostasZigo/sit/utils"
)

// newTestStore creates an object store over a fresh repository skeleton.
func newTestStore(t *testing.T, compressed bool) (*ObjectStore, string) {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithSitDir(t)
	compressor, err := compression.NewCompressor(2, compressed)
	if err != nil {
		t.Fatalf("Failed to create compressor: %v", err)
	}
	t.Cleanup(func() { compressor.Close() })

	return NewObjectStore(repoPath, compressor), repoPath
}

// assertBlobHash verifies blob hash matches expected value for given content.
func assertBlobHash(t *testing.T, blob *Blob, content []byte) {
	t.Helper()

	expectedHash := utils.ComputeHash(content)
	if blob.Hash() != expectedHash {
		t.Fatalf("Expected hash [%s], got [%s]", expectedHash, blob.Hash())
	}
}

// assertBlobContent verifies blob stores exact content and correct size.
func assertBlobContent(t *testing.T, blob *Blob, expectedContent []byte) {
	t.Helper()

	if blob.Size() != len(expectedContent) {
		t.Fatalf("Expected size %d, got %d", len(expectedContent), blob.Size())
	}

	if string(blob.Content()) != string(expectedContent) {
		t.Fatalf("Expected content [%q], got [%q]", expectedContent, blob.Content())
	}
}

// createTreeEntry creates tree entry and fails test on error.
func createTreeEntry(t *testing.T, path, hash string) TreeEntry {
	t.Helper()

	entry, err := NewTreeEntry(path, hash)
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}

	return *entry
}

// createTree creates tree from entries and fails test on error.
func createTree(t *testing.T, entries []TreeEntry) *Tree {
	t.Helper()

	tree, err := NewTree(entries)
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	return tree
}

// createTestSignature returns a signature rendered at a fixed second.
func createTestSignature(name, email string) string {
	return Signature{
		Name:  name,
		Email: email,
		When:  time.Date(2024, time.March, 9, 14, 5, 7, 0, time.UTC),
	}.String()
}

// createAndStoreCommit creates commit, stores it, and returns commit.
func createAndStoreCommit(t *testing.T, parentHash string, store *ObjectStore) *Commit {
	t.Helper()

	sig := createTestSignature(testutils.RandomString(10), testutils.RandomString(20))
	commit := NewCommit(testutils.RandomHash(), parentHash, sig, sig, testutils.RandomString(50))

	if err := store.Store(commit); err != nil {
		t.Fatalf("Failed to store commit: %v", err)
	}

	return commit
}

// assertCommitEqual verifies two commits match in all fields.
func assertCommitEqual(t *testing.T, actual, expected *Commit) {
	t.Helper()

	if actual.hash != expected.hash {
		t.Errorf("Hash mismatch: expected [%s], got [%s]", expected.hash, actual.hash)
	}
	if actual.treeHash != expected.treeHash {
		t.Errorf("Tree hash mismatch: expected [%s], got [%s]", expected.treeHash, actual.treeHash)
	}
	if actual.parentHash != expected.parentHash {
		t.Errorf("Parent hash mismatch: expected [%s], got [%s]", expected.parentHash, actual.parentHash)
	}
	if actual.author != expected.author {
		t.Errorf("Author mismatch: expected [%s], got [%s]", expected.author, actual.author)
	}
	if actual.committer != expected.committer {
		t.Errorf("Committer mismatch: expected [%s], got [%s]", expected.committer, actual.committer)
	}
	if actual.message != expected.message {
		t.Errorf("Message mismatch: expected [%s], got [%s]", expected.message, actual.message)
	}
}
