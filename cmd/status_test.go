package cmd

import (
	"strings"
	"testing"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/testutils"
)

// TestStatusCommand_Clean verifies the clean message after a commit.
func TestStatusCommand_Clean(t *testing.T) {
	repoPath := setupInitializedRepo(t)
	stageAndCommit(t, repoPath, "a.txt", "a", "one")

	stdout := mustRun(t, statusCmd, constants.StatusCmdName)

	expected := "On branch: master\nNothing to commit, working directory clean\n"
	if stdout != expected {
		t.Errorf("Status = %q, want %q", stdout, expected)
	}
}

// TestStatusCommand_AllSections verifies staged, unstaged and untracked files are listed.
func TestStatusCommand_AllSections(t *testing.T) {
	repoPath := setupInitializedRepo(t)
	stageAndCommit(t, repoPath, "tracked.txt", "v1", "one")

	testutils.CreateTestFile(t, repoPath, "staged.txt", []byte("new"))
	mustRun(t, addCmd, constants.AddCmdName, "staged.txt")
	testutils.CreateTestFile(t, repoPath, "tracked.txt", []byte("v2"))
	testutils.CreateTestFile(t, repoPath, "loose.txt", []byte("loose"))

	stdout := mustRun(t, statusCmd, constants.StatusCmdName)

	for _, want := range []string{
		"Changes to be committed:\n",
		"        New File:   staged.txt\n",
		"Changes not staged for commit:\n",
		"        Modified:   tracked.txt\n",
		"Untracked files:\n",
		"        loose.txt\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected status to contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "HEAD detached") {
		t.Error("Did not expect detached HEAD")
	}
}

// TestStatusCommand_Detached verifies the detached HEAD line after checking out an older commit.
func TestStatusCommand_Detached(t *testing.T) {
	repoPath := setupInitializedRepo(t)
	first := stageAndCommit(t, repoPath, "a.txt", "1", "one")
	stageAndCommit(t, repoPath, "a.txt", "2", "two")
	mustRun(t, checkoutCmd, constants.CheckoutCmdName, first)

	stdout := mustRun(t, statusCmd, constants.StatusCmdName)

	if !strings.Contains(stdout, "HEAD detached at "+first+"\n") {
		t.Errorf("Expected detached HEAD line, got:\n%s", stdout)
	}
}

// TestStatusCommand_Deleted verifies a removed index entry is staged as a deletion.
func TestStatusCommand_Deleted(t *testing.T) {
	repoPath := setupInitializedRepo(t)
	stageAndCommit(t, repoPath, "a.txt", "a", "one")
	mustRun(t, rmCmd, constants.RmCmdName, "a.txt")

	stdout := mustRun(t, statusCmd, constants.StatusCmdName)

	if !strings.Contains(stdout, "        Deleted:    a.txt\n") {
		t.Errorf("Expected deletion, got:\n%s", stdout)
	}
	// The working file is still there but no longer tracked
	if !strings.Contains(stdout, "Untracked files:\n") {
		t.Errorf("Expected a.txt to be untracked, got:\n%s", stdout)
	}
}
