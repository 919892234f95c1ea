// Package repository owns the on-disk state of one sit repository and runs
// the operations that keep objects, refs, the index and the working tree
// consistent with each other.
package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KostasZigo/sit/internal/compression"
	"github.com/KostasZigo/sit/internal/config"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/index"
	"github.com/KostasZigo/sit/internal/objects"
	"github.com/KostasZigo/sit/internal/refs"
)

// Repository is the context every operation runs against. It is opened once
// per command and holds the loaded index until Close.
type Repository struct {
	root   string
	sitDir string

	store  *objects.ObjectStore
	refs   *refs.Refs
	config *config.Config
	index  *index.Index

	compressor *compression.Compressor
	lock       *Lock

	warnSize         int64
	maxSize          int64
	now              func() time.Time
	workers          int
	compress         bool
	compressionLevel int
}

// Option adjusts a Repository at open time.
type Option func(*Repository)

// WithSizeLimits overrides the warning and hard limits applied by Add.
func WithSizeLimits(warn, max int64) Option {
	return func(r *Repository) {
		r.warnSize = warn
		r.maxSize = max
	}
}

// WithClock sets the time source used for commit signatures.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithCompression selects how new objects are encoded on disk.
func WithCompression(enabled bool, level int) Option {
	return func(r *Repository) {
		r.compress = enabled
		r.compressionLevel = level
	}
}

// WithWorkers bounds the goroutines used to scan the working tree.
func WithWorkers(n int) Option {
	return func(r *Repository) {
		r.workers = n
	}
}

// WithConfig replaces the repository/global config resolution.
func WithConfig(cfg *config.Config) Option {
	return func(r *Repository) {
		r.config = cfg
	}
}

// Init creates an empty repository in path.
// An existing .sit is never overwritten; a partial initialization is removed.
func Init(path string) error {
	sitDir := filepath.Join(path, constants.Sit)

	if err := checkRepositoryDoesNotExist(sitDir); err != nil {
		return err
	}

	// Track if initialization of sit directories and files was successful
	var initSuccess bool

	defer func() {
		if !initSuccess {
			cleanupRepository(sitDir)
		}
	}()

	directories := []string{
		sitDir,
		filepath.Join(sitDir, constants.Objects),
		filepath.Join(sitDir, constants.Refs),
		filepath.Join(sitDir, constants.Refs, constants.Heads),
	}

	for _, directory := range directories {
		if err := os.MkdirAll(directory, constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", directory, err)
		}
	}

	files := []struct {
		name    string
		content string
	}{
		{constants.Head, constants.EmptyRef},
		{filepath.Join(constants.Refs, constants.Heads, constants.DefaultBranch), constants.EmptyRef},
		{constants.CommitMsg, ""},
		{constants.ConfigFile, ""},
		{constants.IndexFile, ""},
	}

	for _, file := range files {
		filePath := filepath.Join(sitDir, file.name)
		if err := os.WriteFile(filePath, []byte(file.content), constants.FilePerms); err != nil {
			return fmt.Errorf("failed to create %s file: %w", file.name, err)
		}
	}

	initSuccess = true
	return nil
}

func checkRepositoryDoesNotExist(path string) error {
	_, err := os.Stat(path)

	// If path doesn't exist there is no error
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check repository path: %w", err)
	}

	return fatalf(ErrAlreadyExists, "%s", path)
}

// Removes the entire .sit directory if it exists
func cleanupRepository(sitDir string) {
	if _, err := os.Stat(sitDir); err == nil {
		slog.Debug("Cleaning up partial repository initialization",
			"path", sitDir)

		if err := os.RemoveAll(sitDir); err != nil {
			slog.Warn("Failed to cleanup repository directory",
				"path", sitDir,
				"error", err)
		} else {
			slog.Debug("Successfully cleaned up repository directory",
				"path", sitDir)
		}
	}
}

// FindRoot locates the directory containing .sit by walking up from start.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		sitPath := filepath.Join(dir, constants.Sit)
		if info, err := os.Stat(sitPath); err == nil && info.IsDir() {
			return dir, nil
		}

		// Dir returns all but the last element of path
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fatalf(ErrNotRepository, "%s", constants.Sit)
		}
		dir = parent
	}
}

// Open loads the repository containing path without taking the lock.
func Open(path string, opts ...Option) (*Repository, error) {
	root, err := FindRoot(path)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		root:             root,
		sitDir:           filepath.Join(root, constants.Sit),
		warnSize:         constants.WarnFileSize,
		maxSize:          constants.MaxFileSize,
		now:              time.Now,
		workers:          constants.DefaultWorkers,
		compress:         true,
		compressionLevel: constants.DefaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.compressor, err = compression.NewCompressor(r.compressionLevel, r.compress)
	if err != nil {
		return nil, fmt.Errorf("failed to set up compression: %w", err)
	}
	r.store = objects.NewObjectStore(root, r.compressor)
	r.refs = refs.New(r.sitDir)
	if r.config == nil {
		r.config = config.New(r.sitDir)
	}

	r.index, err = index.Load(filepath.Join(r.sitDir, constants.IndexFile))
	if err != nil {
		r.compressor.Close()
		return nil, err
	}

	slog.Debug("Opened repository", "root", root, "entries", r.index.Len())
	return r, nil
}

// OpenLocked is Open followed by acquiring the single-writer lock.
// Mutating commands use it and must Close the repository.
func OpenLocked(path string, opts ...Option) (*Repository, error) {
	root, err := FindRoot(path)
	if err != nil {
		return nil, err
	}

	lock, err := AcquireLock(filepath.Join(root, constants.Sit))
	if err != nil {
		return nil, err
	}

	r, err := Open(root, opts...)
	if err != nil {
		lock.Release()
		return nil, err
	}
	r.lock = lock
	return r, nil
}

// Close releases the lock, if held, and the compressor.
func (r *Repository) Close() error {
	lockErr := r.lock.Release()
	if err := r.compressor.Close(); err != nil {
		return err
	}
	return lockErr
}

func (r *Repository) Root() string {
	return r.root
}

func (r *Repository) SitDir() string {
	return r.sitDir
}

func (r *Repository) Store() *objects.ObjectStore {
	return r.store
}

func (r *Repository) Refs() *refs.Refs {
	return r.refs
}

func (r *Repository) Config() *config.Config {
	return r.config
}

// Index returns the staging index loaded at open time.
func (r *Repository) Index() *index.Index {
	return r.index
}

// RelativePath converts a path given relative to the current directory into
// the repository-relative slash form the index uses.
func (r *Repository) RelativePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside repository at %s", path, r.root)
	}

	cleaned := index.CleanPath(rel)
	if strings.HasSuffix(filepath.ToSlash(path), "/") && cleaned != "" {
		cleaned += "/"
	}
	return cleaned, nil
}

func (r *Repository) workPath(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// resolveCommit maps master, HEAD, a full id or an abbreviated id to a
// stored commit id. Unknown ids are reported, not fatal.
func (r *Repository) resolveCommit(id string) (string, error) {
	switch id {
	case "master":
		return r.refs.MasterID()
	case constants.Head:
		return r.refs.Head()
	}

	full, err := refs.Complete(r.store, id)
	if err != nil {
		e := reportedf(ErrCommitNotFound, "%s", id)
		e.Context = err.Error()
		return "", e
	}
	if _, err := objects.ReadCommit(r.store, full); err != nil {
		e := reportedf(ErrCommitNotFound, "%s", id)
		e.Context = err.Error()
		return "", e
	}
	return full, nil
}
