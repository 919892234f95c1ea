package objects

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/KostasZigo/sit/utils"
)

// ErrMalformedTree is returned when stored bytes do not parse as a tree.
var ErrMalformedTree = errors.New("malformed tree")

// TreeEntry maps one repository-relative path to a blob id.
type TreeEntry struct {
	path string
	hash string
}

func NewTreeEntry(path, hash string) (*TreeEntry, error) {
	if err := ValidateEntryPath(path); err != nil {
		return nil, err
	}
	if !utils.IsHexHash(hash) {
		return nil, fmt.Errorf("invalid tree entry hash for %s: %q", path, hash)
	}
	return &TreeEntry{path: path, hash: hash}, nil
}

// ValidateEntryPath rejects paths the line-based tree format cannot hold.
func ValidateEntryPath(path string) error {
	if path == "" || strings.ContainsAny(path, "\n\x00") {
		return fmt.Errorf("invalid tree entry path: %q", path)
	}
	return nil
}

func (e TreeEntry) Path() string {
	return e.path
}

func (e TreeEntry) Hash() string {
	return e.hash
}

// Tree is the serialized form of an index snapshot: a flat, path-ordered
// mapping with no directory entries.
type Tree struct {
	entries []TreeEntry
	hash    string
}

// NewTree creates a tree object from the list of entries.
// Entries are sorted by path; a duplicate path is rejected.
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	entries := make([]TreeEntry, len(treeEntries))
	copy(entries, treeEntries)

	slices.SortStableFunc(entries, func(a, b TreeEntry) int {
		return strings.Compare(a.path, b.path)
	})

	for i := 1; i < len(entries); i++ {
		if entries[i].path == entries[i-1].path {
			return nil, fmt.Errorf("duplicate tree entry: %s", entries[i].path)
		}
	}

	return &Tree{
		entries: entries,
		hash:    utils.ComputeHash(buildTreeContent(entries)),
	}, nil
}

// buildTreeContent creates the raw tree content, one line per entry:
// <40 hex id> <path>\n
func buildTreeContent(entries []TreeEntry) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		buf.WriteString(entry.hash)
		buf.WriteByte(' ')
		buf.WriteString(entry.path)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// ParseTree decodes tree content.
func ParseTree(data []byte) (*Tree, error) {
	var entries []TreeEntry

	for line := range strings.Lines(string(data)) {
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			continue
		}
		hash, path, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: line %q", ErrMalformedTree, line)
		}
		entry, err := NewTreeEntry(path, hash)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedTree, err)
		}
		entries = append(entries, *entry)
	}

	return NewTree(entries)
}

// Hash returns the SHA-1 hash of the tree
func (t *Tree) Hash() string {
	return t.hash
}

// Entries returns all tree entries
func (t *Tree) Entries() []TreeEntry {
	return t.entries
}

// Content returns the raw tree content
func (t *Tree) Content() []byte {
	return buildTreeContent(t.entries)
}

func (t *Tree) Data() []byte {
	return t.Content()
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{hash: %s, entries: %d}", t.hash, len(t.entries))
}

// FindEntry finds an entry by path
func (t *Tree) FindEntry(path string) (*TreeEntry, bool) {
	i, found := slices.BinarySearchFunc(t.entries, path, func(e TreeEntry, p string) int {
		return strings.Compare(e.path, p)
	})
	if !found {
		return nil, false
	}
	entry := t.entries[i]
	return &entry, true
}
