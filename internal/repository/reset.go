package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/index"
	"github.com/KostasZigo/sit/utils"
)

// ResetAction says which way a path moved during Reset.
type ResetAction int

const (
	// ResetStaged: in the target only, copied into the index.
	ResetStaged ResetAction = iota
	// ResetUnstaged: in the index only, removed from it.
	ResetUnstaged
	// ResetOverwritten: in both but out of sync, the index takes the target id.
	ResetOverwritten
	// ResetUntracked: the requested path is in neither snapshot.
	ResetUntracked
)

func (a ResetAction) String() string {
	switch a {
	case ResetStaged:
		return ">>> index"
	case ResetUnstaged:
		return "<<< index"
	case ResetOverwritten:
		return "="
	default:
		return "not tracked"
	}
}

// ResetChange is one path touched by Reset.
type ResetChange struct {
	Path   string
	Action ResetAction
	ID     string
}

// Reset reconciles the index, and with hard also the working tree, with the
// snapshot of commitID for every path under path. commitID accepts master,
// HEAD or empty (HEAD). Paths already equal in the target, the index and the
// working tree are left alone and not reported.
func (r *Repository) Reset(commitID, path string, hard bool) ([]ResetChange, error) {
	if commitID == "" {
		commitID = constants.Head
	}
	id, err := r.resolveCommit(commitID)
	if err != nil {
		return nil, err
	}

	target, err := index.FromCommit(r.store, id)
	if err != nil {
		return nil, err
	}

	inTarget := make(map[string]string)
	for _, e := range target.ListUnder(path) {
		inTarget[e.Path] = e.ID
	}
	inIndex := make(map[string]string)
	for _, e := range r.index.ListUnder(path) {
		inIndex[e.Path] = e.ID
	}

	var union []string
	for p := range inTarget {
		union = append(union, p)
	}
	for p := range inIndex {
		if _, ok := inTarget[p]; !ok {
			union = append(union, p)
		}
	}
	slices.Sort(union)

	if len(union) == 0 && index.CleanPath(path) != "" {
		slog.Warn("Path is not tracked", "path", path)
		return []ResetChange{{Path: index.CleanPath(path), Action: ResetUntracked}}, nil
	}

	var changes []ResetChange
	for _, p := range union {
		targetID, inT := inTarget[p]
		indexID, inI := inIndex[p]

		var change ResetChange
		switch {
		case inT && !inI:
			r.index.Insert(p, targetID)
			change = ResetChange{Path: p, Action: ResetStaged, ID: targetID}
		case !inT && inI:
			r.index.Remove(p)
			change = ResetChange{Path: p, Action: ResetUnstaged, ID: indexID}
		default:
			if indexID == targetID && r.workingID(p) == indexID {
				continue
			}
			r.index.Remove(p)
			r.index.Insert(p, targetID)
			change = ResetChange{Path: p, Action: ResetOverwritten, ID: targetID}
		}

		if hard {
			if err := r.resetWorkingFile(change); err != nil {
				return nil, err
			}
		}
		changes = append(changes, change)
	}

	if err := r.index.Save(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *Repository) resetWorkingFile(change ResetChange) error {
	if change.Action == ResetUnstaged {
		err := os.Remove(r.workPath(change.Path))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", change.Path, err)
		}
		return nil
	}
	return r.materialize(change.Path, change.ID)
}

// workingID digests the working file at rel; a missing file yields "".
func (r *Repository) workingID(rel string) string {
	content, err := os.ReadFile(r.workPath(rel))
	if err != nil {
		return ""
	}
	return utils.ComputeHash(content)
}
