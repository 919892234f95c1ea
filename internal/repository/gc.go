package repository

import (
	"log/slog"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

// GCReport lists what a collection looked at and deleted.
type GCReport struct {
	Scanned int
	Removed []string
}

// GC deletes every object not reachable from master or HEAD. It must run
// under the repository lock.
func (r *Repository) GC() (*GCReport, error) {
	existing, err := r.store.List()
	if err != nil {
		return nil, err
	}

	reachable := make(map[string]struct{})
	for _, ref := range []func() (string, error){r.refs.MasterID, r.refs.Head} {
		tip, err := ref()
		if err != nil {
			return nil, err
		}
		if err := r.markReachable(tip, reachable); err != nil {
			return nil, err
		}
	}

	report := &GCReport{Scanned: len(existing)}
	for _, id := range existing {
		if _, ok := reachable[id]; ok {
			continue
		}
		if err := r.store.Remove(id); err != nil {
			return nil, err
		}
		report.Removed = append(report.Removed, id)
	}

	slog.Info("Garbage collected", "scanned", report.Scanned, "removed", len(report.Removed))
	return report, nil
}

// markReachable adds every commit, tree and blob reachable from id.
func (r *Repository) markReachable(id string, reachable map[string]struct{}) error {
	for id != constants.EmptyRef {
		if _, seen := reachable[id]; seen {
			return nil
		}
		commit, err := objects.ReadCommit(r.store, id)
		if err != nil {
			return err
		}
		reachable[id] = struct{}{}

		tree, err := objects.ReadTree(r.store, commit.TreeHash())
		if err != nil {
			return err
		}
		reachable[commit.TreeHash()] = struct{}{}
		for _, entry := range tree.Entries() {
			reachable[entry.Hash()] = struct{}{}
		}

		id = commit.ParentHash()
	}
	return nil
}
