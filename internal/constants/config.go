package constants

import "os"

// Command name constants used in tests and error messages.
// Cobra Use fields remain inline for CLI discoverability.
const (
	InitCmdName       = "init"
	AddCmdName        = "add"
	RmCmdName         = "rm"
	CommitCmdName     = "commit"
	StatusCmdName     = "status"
	CheckoutCmdName   = "checkout"
	LogCmdName        = "log"
	ResetCmdName      = "reset"
	DiffCmdName       = "diff"
	GCCmdName         = "gc"
	ConfigCmdName     = "config"
	HashObjectCmdName = "hash-object"
	CatFileCmdName    = "cat-file"
)

// Repository directory and file names define the sit metadata structure.
const (
	// Sit is the repository metadata directory.
	Sit = ".sit"

	// Objects stores content-addressable objects (blobs, trees, commits).
	Objects = "objects"

	// Refs contains branch references.
	Refs = "refs"

	// Heads stores branch pointers under refs/.
	Heads = "heads"

	// Head holds the literal id of the checked-out commit.
	Head = "HEAD"

	// CommitMsg is the message-staging file read when commit gets no -m.
	CommitMsg = "COMMIT_MSG"

	// IndexFile persists the staging index.
	IndexFile = "index"

	// ConfigFile holds repository-local ini configuration.
	ConfigFile = "config"

	// LockFile is held exclusively by mutating commands.
	LockFile = "sit.lock"

	// GlobalConfigFile lives in the user's home directory.
	GlobalConfigFile = ".sitconfig"
)

// Default repository values.
const (
	// DefaultBranch is the only branch a repository has.
	DefaultBranch = "master"

	// EmptyRef marks "no commit yet" and terminates parent walks.
	EmptyRef = "0000000000000000000000000000000000000000"
)

// File system permissions for created files and directories.
const (
	// DirPerms grants read/write/execute to owner, read/execute to others (rwxr-xr-x).
	DirPerms os.FileMode = 0755

	// FilePerms grants read/write to owner, read-only to others (rw-r--r--).
	FilePerms os.FileMode = 0644
)

// Cryptographic hash properties.
const (
	// HashByteLength is byte length of SHA-1 hash (20 bytes).
	HashByteLength = 20

	// HashStringLength is hex string length of SHA-1 hash (40 characters).
	HashStringLength = 40

	// HashDirPrefixLength is subdirectory prefix length under objects/ (2 characters).
	HashDirPrefixLength = 2
)

// Staging size limits.
const (
	// WarnFileSize triggers a warning when a staged file is larger.
	WarnFileSize int64 = 100 << 20

	// MaxFileSize is the hard cap; larger files cannot be staged.
	MaxFileSize int64 = 200 << 20
)

// Commit record line prefixes.
const (
	CommitTreePrefix      = "tree "
	CommitParentPrefix    = "parent "
	CommitAuthorPrefix    = "author "
	CommitCommitterPrefix = "committer "
)

// SignatureTimeLayout formats the local timestamp in author/committer lines.
const SignatureTimeLayout = "2006-Jan-02 15:04:05"

// Process settings, read through viper from flags or SIT_* environment variables.
const (
	EnvPrefix = "SIT"

	LogLevelKey         = "log_level"
	LogFileKey          = "log_file"
	CompressionKey      = "compression"
	CompressionLevelKey = "compression_level"
	WorkersKey          = "workers"

	DefaultLogLevel         = "warn"
	DefaultCompressionLevel = 2
	DefaultWorkers          = 4
)
