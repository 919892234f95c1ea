package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/KostasZigo/sit/internal/compression"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/testutils"
	"github.com/KostasZigo/sit/utils"
)

// sharedBinaryPath stores compiled sit binary path built once in TestMain.
// All E2E tests execute this binary to verify end-to-end behavior.
// Binary persists for test suite duration, cleaned up after all tests complete
var sharedBinaryPath string

// TestMain executes before all tests to build sit binary once.
// Binary stored in temporary directory, removed after test suite completes.
//
// Execution flow:
//  1. Create temporary directory for binary storage
//  2. Build sit binary with platform-specific extension
//  3. Store binary path in package-level sharedBinaryPath variable
//  4. Execute all Test* functions via m.Run()
//  5. Clean up temporary directory and binary
//  6. Exit with test suite status code
func TestMain(m *testing.M) {
	tempDir, err := os.MkdirTemp("", "sit-e2e-*")
	if err != nil {
		panic("Failed to create temp directory: " + err.Error())
	}

	binaryName := "sit"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	sharedBinaryPath = filepath.Join(tempDir, binaryName)

	buildCmd := exec.Command("go", "build", "-o", sharedBinaryPath, ".")
	if err := buildCmd.Run(); err != nil {
		os.RemoveAll(tempDir)
		panic("Failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tempDir)
	os.Exit(code)
}

// TestE2E_InitCommand verifies repository initialization creates correct structure.
func TestE2E_InitCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)

	// Test the binary like a real user
	output, err := runSit(t, repoPath, constants.InitCmdName)
	if err != nil {
		t.Fatalf("Binary execution failed: %v\nOutput: %s", err, output)
	}

	expectedMsg := fmt.Sprintf("Initialized empty sit repository in %s\n", utils.BuildDirPath(".", constants.Sit))
	if !strings.Contains(output, expectedMsg) {
		t.Errorf("Expected output to contain %q, got: %s", expectedMsg, output)
	}

	testutils.AssertRepositoryStructure(t, repoPath)

	// Test error case - init again
	output, err = runSit(t, repoPath, constants.InitCmdName)
	if err == nil {
		t.Errorf("Expected error when running %s twice", constants.InitCmdName)
	}

	expectedErrorMsg := "Error: failed to initialize repository - repository already exists: .sit\n"
	if !strings.Contains(output, expectedErrorMsg) {
		t.Errorf("Expected error to contain %q, got: %q", expectedErrorMsg, output)
	}
}

// TestE2E_HelpCommand verifies help output contains expected sections.
func TestE2E_HelpCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	output, err := runSit(t, "", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	expectedTexts := []string{
		"Sit is a minimal, single-branch, content-addressable version control system",
		"Available Commands:",
		constants.InitCmdName,
		constants.CommitCmdName,
		constants.HashObjectCmdName,
		"Flags:",
		"--log-level",
		"-h, --help",
	}

	for _, text := range expectedTexts {
		if !strings.Contains(output, text) {
			t.Errorf("Help output missing %q, got: %s", text, output)
		}
	}
}

// TestE2E_InvalidCommand verifies error for unknown commands.
func TestE2E_InvalidCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	output, err := runSit(t, "", "nonexistent")
	if err == nil {
		t.Error("Expected error for invalid command")
	}

	if !strings.Contains(output, "unknown command") {
		t.Errorf("Expected 'unknown command' error, got: %s", output)
	}
}

// TestE2E_HashObjectCommand_NoStorage verifies hash computation without storage.
func TestE2E_HashObjectCommand_NoStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)
	initializeRepository(t, repoPath)

	testFileName := "test.txt"
	testFileContent := []byte("hello world\n")
	testutils.CreateTestFile(t, repoPath, testFileName, testFileContent)

	output, err := runSit(t, repoPath, constants.HashObjectCmdName, testFileName)
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}

	outputHash := strings.TrimSpace(output)
	if expectedHash := utils.ComputeHash(testFileContent); expectedHash != outputHash {
		t.Fatalf("Expected hash %s, got %s", expectedHash, outputHash)
	}

	// Verify object was NOT created (no -w flag)
	if _, err := os.Stat(objectFilePath(repoPath, outputHash)); !errors.Is(err, fs.ErrNotExist) {
		t.Error("Object should not be created without -w flag")
	}
}

// TestE2E_HashObjectCommand_WithStorage verifies the stored object decompresses to the file content.
func TestE2E_HashObjectCommand_WithStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)
	initializeRepository(t, repoPath)

	testFileName := "pokemon.txt"
	testFileContent := bytes.Repeat([]byte("Charmander evolved into Charmeleon !\n"), 64)
	testutils.CreateTestFile(t, repoPath, testFileName, testFileContent)

	output, err := runSit(t, repoPath, constants.HashObjectCmdName, testFileName, "-w")
	if err != nil {
		t.Fatalf("sit %s command failed: %v", constants.HashObjectCmdName, err)
	}

	expectedHash := utils.ComputeHash(testFileContent)
	if printedHash := strings.TrimSpace(output); printedHash != expectedHash {
		t.Fatalf("Expected printed hash to be [%s] but got [%s]", expectedHash, printedHash)
	}

	objectPath := objectFilePath(repoPath, expectedHash)
	testutils.AssertFileExists(t, objectPath)

	content, compressed := decompressObject(t, objectPath)
	if !compressed {
		t.Error("Expected object to be stored compressed")
	}
	if !bytes.Equal(content, testFileContent) {
		t.Errorf("Content mismatch: expected %q, got %q", testFileContent, content)
	}
}

// TestE2E_CompressionDisabled verifies SIT_COMPRESSION=false stores raw bytes.
func TestE2E_CompressionDisabled(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)
	initializeRepository(t, repoPath)

	testFileContent := []byte("stored as is\n")
	testutils.CreateTestFile(t, repoPath, "raw.txt", testFileContent)

	cmd := exec.Command(sharedBinaryPath, constants.HashObjectCmdName, "-w", "raw.txt")
	cmd.Dir = repoPath
	cmd.Env = append(os.Environ(), "SIT_COMPRESSION=false")
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}

	raw := testutils.ReadTestFile(t, objectFilePath(repoPath, utils.ComputeHash(testFileContent)))
	if raw != string(testFileContent) {
		t.Errorf("Expected raw object %q, got %q", testFileContent, raw)
	}
}

// TestE2E_Workflow drives a full session: configure, stage, commit, inspect, amend, reset and gc.
func TestE2E_Workflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)
	initializeRepository(t, repoPath)

	mustRunSit(t, repoPath, constants.ConfigCmdName, "set", "user.name", "Alice")
	mustRunSit(t, repoPath, constants.ConfigCmdName, "set", "user.email", "alice@example.com")

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("apple\n"))
	testutils.CreateTestFile(t, repoPath, "docs/readme.md", []byte("# sit\n"))

	if output := mustRunSit(t, repoPath, constants.AddCmdName, "."); !strings.Contains(output, "a.txt added.") {
		t.Errorf("Unexpected add output: %s", output)
	}
	mustRunSit(t, repoPath, constants.CommitCmdName, "-m", "first")

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("apricot\n"))
	status := mustRunSit(t, repoPath, constants.StatusCmdName)
	if !strings.Contains(status, "Modified:   a.txt") {
		t.Errorf("Expected a.txt modified in status, got:\n%s", status)
	}

	diffOut := mustRunSit(t, repoPath, constants.DiffCmdName)
	if !strings.Contains(diffOut, "-apple\n") || !strings.Contains(diffOut, "+apricot\n") {
		t.Errorf("Unexpected diff:\n%s", diffOut)
	}

	mustRunSit(t, repoPath, constants.AddCmdName, "a.txt")
	mustRunSit(t, repoPath, constants.CommitCmdName, "-m", "second")

	logOut := mustRunSit(t, repoPath, constants.LogCmdName)
	if strings.Count(logOut, "Commit ") != 2 || !strings.Contains(logOut, "Author: Alice <alice@example.com>") {
		t.Errorf("Unexpected log:\n%s", logOut)
	}
	if strings.Index(logOut, "    second") > strings.Index(logOut, "    first") {
		t.Errorf("Expected newest commit first:\n%s", logOut)
	}

	mustRunSit(t, repoPath, constants.CommitCmdName, "--amend", "-m", "second, amended")
	logOut = mustRunSit(t, repoPath, constants.LogCmdName)
	if !strings.Contains(logOut, "    second, amended") || strings.Contains(logOut, "    second\n") {
		t.Errorf("Expected amended message in log:\n%s", logOut)
	}

	// Throw away a working change
	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("avocado\n"))
	mustRunSit(t, repoPath, constants.AddCmdName, "a.txt")
	resetOut := mustRunSit(t, repoPath, constants.ResetCmdName, "--hard")
	if resetOut != "  a.txt = "+utils.ComputeHash([]byte("apricot\n"))+"\n" {
		t.Errorf("Unexpected reset output %q", resetOut)
	}
	if content := testutils.ReadTestFile(t, filepath.Join(repoPath, "a.txt")); content != "apricot\n" {
		t.Errorf("a.txt = %q after hard reset", content)
	}

	// The replaced commit, the avocado blob and nothing else are unreachable
	gcOut := mustRunSit(t, repoPath, constants.GCCmdName)
	if !strings.HasPrefix(gcOut, "Removed 2 of ") {
		t.Errorf("Unexpected gc output %q", gcOut)
	}

	status = mustRunSit(t, repoPath, constants.StatusCmdName)
	if !strings.Contains(status, "Nothing to commit, working directory clean") {
		t.Errorf("Expected clean status, got:\n%s", status)
	}
}

// TestE2E_ReportedErrorExitsZero verifies reported errors print "Error:" without failing.
func TestE2E_ReportedErrorExitsZero(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)
	initializeRepository(t, repoPath)

	output, err := runSit(t, repoPath, constants.LogCmdName, "deadbeef")
	if err != nil {
		t.Fatalf("Expected exit status 0, got: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Error: commit does not exist: deadbeef") {
		t.Errorf("Unexpected output: %s", output)
	}
}

// TestE2E_FatalErrorExitsNonZero verifies a commit without a user fails with status 1.
func TestE2E_FatalErrorExitsNonZero(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	repoPath := setupTestRepo(t)
	initializeRepository(t, repoPath)

	output, err := runSit(t, repoPath, constants.CommitCmdName, "-m", "no user")

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("Expected exit status 1, got: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "config key not set: user.name (config: user.name)") {
		t.Errorf("Unexpected output: %s", output)
	}
}

// TestE2E_HashObjectCommand_InvalidArgs verifies error for missing arguments.
func TestE2E_HashObjectCommand_InvalidArgs(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	output, err := runSit(t, "", constants.HashObjectCmdName)
	if err == nil {
		t.Error("Expected error when no file argument provided")
	}

	expectedMsg := fmt.Sprintf("%s command requires exactly 1 argument (filepath), received 0", constants.HashObjectCmdName)
	if !strings.Contains(output, expectedMsg) {
		t.Errorf("Expected error to contain %q, got: %s", expectedMsg, output)
	}
}

// Helper Methods

// setupTestRepo creates test directory and an empty HOME for the binary.
func setupTestRepo(t *testing.T) (repoPath string) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	repoPath = filepath.Join(t.TempDir(), "test-repo")
	if err := os.MkdirAll(repoPath, constants.DirPerms); err != nil {
		t.Fatalf("Failed to create test repo dir: %v", err)
	}

	return repoPath
}

// runSit executes the binary in dir and returns its combined output.
func runSit(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(sharedBinaryPath, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// mustRunSit is runSit failing the test on a non-zero exit.
func mustRunSit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	output, err := runSit(t, dir, args...)
	if err != nil {
		t.Fatalf("sit %v failed: %v\nOutput: %s", args, err, output)
	}
	return output
}

// initializeRepository runs sit init in test directory.
func initializeRepository(t *testing.T, repoPath string) {
	t.Helper()
	mustRunSit(t, repoPath, constants.InitCmdName)
}

func objectFilePath(repoPath, hash string) string {
	return filepath.Join(repoPath, constants.Sit, constants.Objects, hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}

// decompressObject reads an object file and reverses the store's encoding.
func decompressObject(t *testing.T, objectPath string) ([]byte, bool) {
	t.Helper()

	raw, err := os.ReadFile(objectPath)
	if err != nil {
		t.Fatalf("Failed to read object file: %v", err)
	}

	decoder, err := compression.NewCompressor(0, false)
	if err != nil {
		t.Fatalf("Failed to create decoder: %v", err)
	}
	defer decoder.Close()

	content, compressed, err := decoder.Decompress(raw)
	if err != nil {
		t.Fatalf("Failed to decompress object: %v", err)
	}
	return content, compressed
}
