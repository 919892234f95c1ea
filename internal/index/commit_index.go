package index

import (
	"fmt"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

// CommitIndex is the read-only view of a committed snapshot.
type CommitIndex struct {
	snapshot
	commitID string
}

// NewCommitIndex wraps the entries of an already loaded tree.
func NewCommitIndex(commitID string, tree *objects.Tree) *CommitIndex {
	entries := make(map[string]string, len(tree.Entries()))
	for _, entry := range tree.Entries() {
		entries[entry.Path()] = entry.Hash()
	}
	return &CommitIndex{snapshot: newSnapshot(entries), commitID: commitID}
}

// FromCommit rebuilds the snapshot recorded by commit id.
// The empty ref yields an empty index.
func FromCommit(store *objects.ObjectStore, id string) (*CommitIndex, error) {
	if id == "" || id == constants.EmptyRef {
		return &CommitIndex{snapshot: newSnapshot(nil), commitID: constants.EmptyRef}, nil
	}

	commit, err := objects.ReadCommit(store, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", id, err)
	}
	tree, err := objects.ReadTree(store, commit.TreeHash())
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of commit %s: %w", id, err)
	}
	return NewCommitIndex(id, tree), nil
}

// CommitID returns the commit this snapshot was built from.
func (ci *CommitIndex) CommitID() string {
	return ci.commitID
}
