package repository

import (
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

// RewriteChain re-parents the commits that were newer than a replaced commit.
// newerNewestFirst lists them from the branch tip down to the child of the
// replaced commit. The result is ordered oldest first and ends at the new tip.
func RewriteChain(newerNewestFirst []*objects.Commit, replacementID string) ([]*objects.Commit, string) {
	rewritten := make([]*objects.Commit, 0, len(newerNewestFirst))
	tip := replacementID

	for i := len(newerNewestFirst) - 1; i >= 0; i-- {
		commit := newerNewestFirst[i].WithParent(tip)
		rewritten = append(rewritten, commit)
		tip = commit.Hash()
	}

	return rewritten, tip
}

// commitsNewerThan walks master down to oldID and returns the commits above
// it, newest first.
func (r *Repository) commitsNewerThan(oldID string) ([]*objects.Commit, error) {
	id, err := r.refs.MasterID()
	if err != nil {
		return nil, err
	}

	var newer []*objects.Commit
	for id != oldID {
		if id == constants.EmptyRef {
			return nil, fatalf(ErrNotAncestor, "%s", oldID)
		}
		commit, err := objects.ReadCommit(r.store, id)
		if err != nil {
			return nil, err
		}
		newer = append(newer, commit)
		id = commit.ParentHash()
	}
	return newer, nil
}
