package cmd

import (
	"testing"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/testutils"
	"github.com/KostasZigo/sit/utils"
)

// TestGCCommand_RemovesUnreachable verifies orphaned blobs are deleted and reachable ones kept.
func TestGCCommand_RemovesUnreachable(t *testing.T) {
	repoPath := setupInitializedRepo(t)
	stageAndCommit(t, repoPath, "a.txt", "kept", "one")

	// Staged then unstaged: the blob stays in the store but nothing references it
	testutils.CreateTestFile(t, repoPath, "b.txt", []byte("orphan"))
	mustRun(t, addCmd, constants.AddCmdName, "b.txt")
	mustRun(t, rmCmd, constants.RmCmdName, "b.txt")

	stdout := mustRun(t, gcCmd, constants.GCCmdName)

	// blob kept, blob orphan, tree, commit
	if stdout != "Removed 1 of 4 objects\n" {
		t.Errorf("Unexpected output %q", stdout)
	}
	testutils.AssertFileNotExists(t, objectPath(repoPath, utils.ComputeHash([]byte("orphan"))))
	testutils.AssertFileExists(t, objectPath(repoPath, utils.ComputeHash([]byte("kept"))))

	// A second run has nothing left to do
	if stdout := mustRun(t, gcCmd, constants.GCCmdName); stdout != "Removed 0 of 3 objects\n" {
		t.Errorf("Unexpected output on second run %q", stdout)
	}
}
