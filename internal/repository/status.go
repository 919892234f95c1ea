package repository

import (
	"github.com/KostasZigo/sit/internal/diff"
	"github.com/KostasZigo/sit/internal/index"
)

// Status compares HEAD, the index and the working tree.
type Status struct {
	Head   string
	Master string
	// Detached is set when HEAD is not master's tip.
	Detached bool
	// ToBeCommitted are differences between HEAD's snapshot and the index.
	ToBeCommitted []diff.Change
	// NotStaged are tracked paths whose working file differs from the index.
	NotStaged []diff.Change
	// Untracked are working files absent from the index.
	Untracked []string
}

// Clean reports whether there is nothing staged, unstaged or untracked.
func (s *Status) Clean() bool {
	return len(s.ToBeCommitted) == 0 && len(s.NotStaged) == 0 && len(s.Untracked) == 0
}

// Status reads the three snapshots and classifies their differences.
func (r *Repository) Status() (*Status, error) {
	headID, err := r.refs.Head()
	if err != nil {
		return nil, err
	}
	masterID, err := r.refs.MasterID()
	if err != nil {
		return nil, err
	}

	head, err := index.FromCommit(r.store, headID)
	if err != nil {
		return nil, err
	}
	work, err := index.ScanWorkingTree(r.root, r.workers)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Head:          headID,
		Master:        masterID,
		Detached:      headID != masterID,
		ToBeCommitted: diff.Compare(head, r.index),
	}

	for _, change := range diff.Compare(r.index, work) {
		if change.Status == diff.Added {
			status.Untracked = append(status.Untracked, change.Path)
			continue
		}
		status.NotStaged = append(status.NotStaged, change)
	}

	return status, nil
}
