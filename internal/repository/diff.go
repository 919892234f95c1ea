package repository

import (
	"fmt"
	"os"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/diff"
	"github.com/KostasZigo/sit/internal/index"
)

// IndexSide names the staging index as a Diff side.
const IndexSide = "index"

// side is a snapshot plus a way to load the content of its entries.
type side struct {
	snapshot index.Reader
	load     func(path, id string) ([]byte, error)
}

// Diff compares two snapshots and returns their file diffs. base defaults to
// HEAD and target to the working tree; "index" names the staging index and
// anything else is resolved as a commit.
func (r *Repository) Diff(base, target string) ([]diff.FileDiff, error) {
	if base == "" {
		base = constants.Head
	}

	from, err := r.diffSide(base)
	if err != nil {
		return nil, err
	}

	var to *side
	if target == "" {
		work, err := index.ScanWorkingTree(r.root, r.workers)
		if err != nil {
			return nil, err
		}
		to = &side{snapshot: work, load: func(path, _ string) ([]byte, error) {
			return os.ReadFile(r.workPath(path))
		}}
	} else {
		to, err = r.diffSide(target)
		if err != nil {
			return nil, err
		}
	}

	changes := diff.Compare(from.snapshot, to.snapshot)
	diffs := make([]diff.FileDiff, 0, len(changes))
	for _, change := range changes {
		var before, after []byte
		if change.Status != diff.Added {
			if before, err = from.load(change.Path, change.BaseID); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", change.Path, err)
			}
		}
		if change.Status != diff.Deleted {
			if after, err = to.load(change.Path, change.TargetID); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", change.Path, err)
			}
		}
		diffs = append(diffs, diff.NewFileDiff(change, before, after))
	}
	return diffs, nil
}

func (r *Repository) diffSide(name string) (*side, error) {
	fromStore := func(_, id string) ([]byte, error) {
		return r.store.Get(id)
	}

	if name == IndexSide {
		return &side{snapshot: r.index.Clone(), load: fromStore}, nil
	}

	id, err := r.resolveCommit(name)
	if err != nil {
		return nil, err
	}
	snapshot, err := index.FromCommit(r.store, id)
	if err != nil {
		return nil, err
	}
	return &side{snapshot: snapshot, load: fromStore}, nil
}
