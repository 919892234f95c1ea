// Package index holds path -> blob id mappings: the mutable staging Index,
// the read-only CommitIndex rebuilt from a commit's tree, and the
// WorkingIndex computed from the working tree.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

// ErrNotInIndex is returned by Get for paths without an entry.
var ErrNotInIndex = errors.New("path not in index")

// Entry is one path -> blob id mapping.
type Entry struct {
	Path string
	ID   string
}

// Reader is the query contract shared by every index variant.
type Reader interface {
	Get(path string) (string, error)
	Contains(path string) bool
	ListUnder(prefix string) []Entry
	Snapshot() []Entry
	Len() int
}

// snapshot implements Reader over a plain map.
type snapshot struct {
	entries map[string]string
}

func newSnapshot(entries map[string]string) snapshot {
	if entries == nil {
		entries = make(map[string]string)
	}
	return snapshot{entries: entries}
}

func (s snapshot) Get(p string) (string, error) {
	id, ok := s.entries[p]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotInIndex, p)
	}
	return id, nil
}

func (s snapshot) Contains(p string) bool {
	_, ok := s.entries[p]
	return ok
}

// ListUnder returns entries whose path equals prefix or lies in the directory
// prefix names. An empty prefix (or ".") returns everything.
func (s snapshot) ListUnder(prefix string) []Entry {
	prefix = CleanPath(prefix)
	if prefix == "" {
		return s.Snapshot()
	}

	var entries []Entry
	for _, p := range s.sortedPaths() {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			entries = append(entries, Entry{Path: p, ID: s.entries[p]})
		}
	}
	return entries
}

// Snapshot returns every entry ordered by path.
func (s snapshot) Snapshot() []Entry {
	entries := make([]Entry, 0, len(s.entries))
	for _, p := range s.sortedPaths() {
		entries = append(entries, Entry{Path: p, ID: s.entries[p]})
	}
	return entries
}

func (s snapshot) Len() int {
	return len(s.entries)
}

func (s snapshot) sortedPaths() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// CleanPath normalizes a repository-relative path to slash form without
// leading "./" or trailing "/". The repository root becomes "".
func CleanPath(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "./")
}

// Index is the mutable staging area persisted at .sit/index.
// It is loaded once per command, mutated, and saved explicitly.
type Index struct {
	snapshot
	file string
}

// New returns an empty index persisted at file.
func New(file string) *Index {
	return &Index{snapshot: newSnapshot(nil), file: file}
}

// Load restores the index stored at file. A missing file yields an empty index.
func Load(file string) (*Index, error) {
	idx := New(file)

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	tree, err := objects.ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	for _, entry := range tree.Entries() {
		idx.entries[entry.Path()] = entry.Hash()
	}
	return idx, nil
}

// Insert upserts path -> id.
func (idx *Index) Insert(p, id string) {
	idx.entries[CleanPath(p)] = id
}

// Remove deletes path; absent paths are ignored.
func (idx *Index) Remove(p string) {
	delete(idx.entries, CleanPath(p))
}

func (idx *Index) Clear() {
	clear(idx.entries)
}

// Clone returns an independent copy bound to the same file.
func (idx *Index) Clone() *Index {
	return &Index{snapshot: newSnapshot(maps.Clone(idx.entries)), file: idx.file}
}

// Tree builds the tree object whose bytes are the index's serialized form.
func (idx *Index) Tree() (*objects.Tree, error) {
	entries := make([]objects.TreeEntry, 0, idx.Len())
	for _, e := range idx.Snapshot() {
		entry, err := objects.NewTreeEntry(e.Path, e.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return objects.NewTree(entries)
}

// Save writes the whole mapping to the index file.
func (idx *Index) Save() error {
	tree, err := idx.Tree()
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}

	dir := filepath.Dir(idx.file)
	tmp, err := os.CreateTemp(dir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(tree.Content()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Chmod(tmpName, constants.FilePerms); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmpName, idx.file); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}
