package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KostasZigo/sit/internal/config"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/repository"
	"github.com/KostasZigo/sit/testutils"
)

// createTestRootCmd creates fresh root command with the given subcommands.
// Flag values left over from earlier executions are reset to their defaults.
func createTestRootCmd(cmds ...*cobra.Command) *cobra.Command {
	testRootCmd := &cobra.Command{Use: "sit"}
	for _, cmd := range cmds {
		resetFlags(cmd)
		testRootCmd.AddCommand(cmd)
	}
	return testRootCmd
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// assertRepositoryStructure verifies .sit directory structure, HEAD and master.
func assertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()
	testutils.AssertRepositoryStructure(t, repoPath)
}

// changeToRepoDir changes working directory to repo path and registers cleanup.
func changeToRepoDir(t *testing.T, repoPath string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	if err := os.Chdir(repoPath); err != nil {
		t.Fatalf("Failed to change to directory %s: %v", repoPath, err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
	})
}

// setupInitializedRepo initializes a repository in a temp dir, makes it the
// working directory and configures a user. HOME points at an empty temp dir
// so ~/.sitconfig of the machine running the tests is never read.
func setupInitializedRepo(t *testing.T) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	repoPath := t.TempDir()
	if err := repository.Init(repoPath); err != nil {
		t.Fatalf("Failed to initialize repository: %v", err)
	}

	cfg := config.NewWithFiles(filepath.Join(repoPath, constants.Sit, constants.ConfigFile), "")
	if err := cfg.Set(config.ScopeRepository, "user.name", "Alice"); err != nil {
		t.Fatalf("Failed to set user.name: %v", err)
	}
	if err := cfg.Set(config.ScopeRepository, "user.email", "alice@example.com"); err != nil {
		t.Fatalf("Failed to set user.email: %v", err)
	}

	changeToRepoDir(t, repoPath)
	return repoPath
}

// runCommand executes cmd under a fresh root with args and returns what it printed.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	testRootCmd := createTestRootCmd(cmd)
	out := captureStdout(testRootCmd)
	errOut := captureStderr(testRootCmd)
	testRootCmd.SetArgs(args)

	err = testRootCmd.Execute()
	return out.String(), errOut.String(), err
}

// mustRun is runCommand failing the test on error.
func mustRun(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()

	stdout, stderr, err := runCommand(t, cmd, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\nstderr: %s", args, err, stderr)
	}
	return stdout
}

// readRef returns the content of a ref file under .sit.
func readRef(t *testing.T, repoPath, name string) string {
	t.Helper()
	return testutils.ReadTestFile(t, filepath.Join(repoPath, constants.Sit, filepath.FromSlash(name)))
}
