package repository

import (
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

// LogEntry is one commit in a history listing.
type LogEntry struct {
	ID     string
	Commit *objects.Commit
}

// Log lists master's history newest first when id is "master" or empty.
// Any other id lists just that commit.
func (r *Repository) Log(id string) ([]LogEntry, error) {
	if id != "" && id != "master" {
		full, err := r.resolveCommit(id)
		if err != nil {
			return nil, err
		}
		commit, err := objects.ReadCommit(r.store, full)
		if err != nil {
			return nil, err
		}
		return []LogEntry{{ID: full, Commit: commit}}, nil
	}

	id, err := r.refs.MasterID()
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for id != constants.EmptyRef {
		commit, err := objects.ReadCommit(r.store, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{ID: id, Commit: commit})
		id = commit.ParentHash()
	}
	return entries, nil
}
