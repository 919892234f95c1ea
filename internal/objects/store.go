package objects

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/KostasZigo/sit/internal/compression"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/utils"
)

var (
	// ErrObjectNotFound is returned when no object with the requested id exists.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidHash is returned for ids that are not 40 lowercase hex characters.
	ErrInvalidHash = errors.New("invalid object hash")

	// ErrCorruptObject is returned when stored bytes no longer match their id.
	ErrCorruptObject = errors.New("corrupt object")
)

const tempPrefix = ".tmp-"

var objectsRelativeFilePath string = filepath.Join(constants.Sit, constants.Objects)

// ObjectStore manages storage of sit objects under .sit/objects/<2>/<38>.
type ObjectStore struct {
	repoPath   string // Path to repository root
	compressor *compression.Compressor
}

// NewObjectStore creates a store for the repository at repoPath.
// A nil compressor stores objects uncompressed.
func NewObjectStore(repoPath string, compressor *compression.Compressor) *ObjectStore {
	if compressor == nil {
		// Options are static, so only a disabled compressor with a plain decoder is built.
		compressor, _ = compression.NewCompressor(0, false)
	}
	return &ObjectStore{
		repoPath:   repoPath,
		compressor: compressor,
	}
}

func (store *ObjectStore) objectsDir() string {
	return filepath.Join(store.repoPath, objectsRelativeFilePath)
}

func (store *ObjectStore) objectPath(hash string) string {
	return filepath.Join(store.objectsDir(), hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}

// Put saves data and returns its id. Storing bytes that already exist is a no-op.
func (store *ObjectStore) Put(data []byte) (string, error) {
	hash := utils.ComputeHash(data)
	objectFile := store.objectPath(hash)

	// Check if object already exists (content-addressable)
	_, err := os.Stat(objectFile)
	if err == nil {
		slog.Debug("Object with this hash already exists",
			"hash", hash)
		return hash, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	objectDir := filepath.Dir(objectFile)
	if err := os.MkdirAll(objectDir, constants.DirPerms); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	if err := writeFileAtomic(objectDir, objectFile, store.compressor.Compress(data)); err != nil {
		return "", fmt.Errorf("failed to write object file: %w", err)
	}

	return hash, nil
}

// Store saves a typed object.
func (store *ObjectStore) Store(obj Object) error {
	hash, err := store.Put(obj.Data())
	if err != nil {
		return err
	}
	if hash != obj.Hash() {
		return fmt.Errorf("hash mismatch: object reports %s, content hashes to %s", obj.Hash(), hash)
	}
	return nil
}

// Get returns the exact bytes stored under hash.
func (store *ObjectStore) Get(hash string) ([]byte, error) {
	if !utils.IsHexHash(hash) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}

	raw, err := os.ReadFile(store.objectPath(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrObjectNotFound, hash, err)
		}
		return nil, fmt.Errorf("failed to read object file %s: %w", hash, err)
	}

	data, wasCompressed, err := store.compressor.Decompress(raw)
	if err != nil || utils.ComputeHash(data) != hash {
		// A raw blob may start with the zstd magic by chance.
		if wasCompressed && utils.ComputeHash(raw) == hash {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrCorruptObject, hash)
	}

	return data, nil
}

// Read reads a blob from storage by hash
func (store *ObjectStore) Read(hash string) (*Blob, error) {
	data, err := store.Get(hash)
	if err != nil {
		return nil, err
	}
	return NewBlob(data), nil
}

// Exists checks if an object exists in storage
func (store *ObjectStore) Exists(hash string) bool {
	if !utils.IsHexHash(hash) {
		return false
	}
	_, err := os.Stat(store.objectPath(hash))
	return err == nil
}

// List returns the ids of every object physically present, sorted.
func (store *ObjectStore) List() ([]string, error) {
	prefixes, err := os.ReadDir(store.objectsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	var hashes []string
	for _, prefix := range prefixes {
		if !prefix.IsDir() || len(prefix.Name()) != constants.HashDirPrefixLength {
			continue
		}
		ids, err := store.listPrefixDir(prefix.Name(), "")
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, ids...)
	}

	slices.Sort(hashes)
	return hashes, nil
}

// FindByPrefix returns every object id starting with prefix.
// The prefix must be at least HashDirPrefixLength characters.
func (store *ObjectStore) FindByPrefix(prefix string) ([]string, error) {
	if len(prefix) < constants.HashDirPrefixLength || !utils.IsHexPrefix(prefix) {
		return nil, fmt.Errorf("%w: prefix %q", ErrInvalidHash, prefix)
	}
	ids, err := store.listPrefixDir(prefix[:constants.HashDirPrefixLength], prefix[constants.HashDirPrefixLength:])
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}

func (store *ObjectStore) listPrefixDir(dirName, restPrefix string) ([]string, error) {
	files, err := os.ReadDir(filepath.Join(store.objectsDir(), dirName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list objects in %s: %w", dirName, err)
	}

	var ids []string
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || strings.HasPrefix(name, tempPrefix) || !strings.HasPrefix(name, restPrefix) {
			continue
		}
		id := dirName + name
		if utils.IsHexHash(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Remove deletes an object. Missing objects are not an error.
func (store *ObjectStore) Remove(hash string) error {
	if !utils.IsHexHash(hash) {
		return fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}

	objectFile := store.objectPath(hash)
	if err := os.Remove(objectFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove object %s: %w", hash, err)
	}

	// Drop the fan-out directory once it is empty; failure just means it is not.
	_ = os.Remove(filepath.Dir(objectFile))
	return nil
}

// writeFileAtomic writes data to a temp file in dir and renames it over dest.
func writeFileAtomic(dir, dest string, data []byte) error {
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, constants.FilePerms); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
