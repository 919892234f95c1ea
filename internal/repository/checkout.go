package repository

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/diff"
	"github.com/KostasZigo/sit/internal/index"
)

// Checkout materializes a snapshot into the working tree.
//
// With an empty path the whole snapshot of commitID replaces the index and
// the working files it names, and HEAD moves to commitID; this requires
// nothing staged. With a path only the matching files are written and the
// index is left alone. An empty commitID takes the files from the index.
// Checkout returns the paths it wrote.
func (r *Repository) Checkout(commitID, path string) ([]string, error) {
	var source index.Reader = r.index.Clone()
	if commitID != "" {
		id, err := r.resolveCommit(commitID)
		if err != nil {
			return nil, err
		}
		snapshot, err := index.FromCommit(r.store, id)
		if err != nil {
			return nil, err
		}
		commitID = id
		source = snapshot
	}

	if path == "" {
		return r.checkoutAll(commitID, source)
	}
	return r.checkoutPath(source, path)
}

func (r *Repository) checkoutAll(commitID string, source index.Reader) ([]string, error) {
	if commitID == "" {
		return nil, fatalf(ErrNoCommitID, "HEAD left unchanged")
	}

	clean, err := r.IsClean()
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, reportedf(ErrDirtyIndex, "checkout of %s", commitID)
	}

	r.index.Clear()
	var written []string
	for _, entry := range source.Snapshot() {
		if err := r.materialize(entry.Path, entry.ID); err != nil {
			return nil, err
		}
		r.index.Insert(entry.Path, entry.ID)
		written = append(written, entry.Path)
	}
	if err := r.index.Save(); err != nil {
		return nil, err
	}
	if err := r.refs.SetHead(commitID); err != nil {
		return nil, err
	}

	slog.Info("Checked out commit", "id", commitID, "files", len(written))
	return written, nil
}

func (r *Repository) checkoutPath(source index.Reader, path string) ([]string, error) {
	rel := index.CleanPath(path)

	if !strings.HasSuffix(path, "/") && source.Contains(rel) {
		id, _ := source.Get(rel)
		if err := r.materialize(rel, id); err != nil {
			return nil, err
		}
		return []string{rel}, nil
	}

	entries := source.ListUnder(rel)
	if len(entries) == 0 {
		return nil, reportedf(ErrPathNotFound, "%s", path)
	}

	written := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := r.materialize(entry.Path, entry.ID); err != nil {
			return nil, err
		}
		written = append(written, entry.Path)
	}
	return written, nil
}

// materialize writes the blob id to the working tree at rel.
func (r *Repository) materialize(rel, id string) error {
	data, err := r.store.Get(id)
	if err != nil {
		return fmt.Errorf("failed to load %s for %s: %w", id, rel, err)
	}

	dest := r.workPath(rel)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}

	tmp, err := os.CreateTemp(dir, ".sit-checkout-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Chmod(tmpName, constants.FilePerms); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// IsClean reports whether the index matches HEAD's snapshot.
func (r *Repository) IsClean() (bool, error) {
	headID, err := r.refs.Head()
	if err != nil {
		return false, err
	}
	if headID == constants.EmptyRef {
		return false, &Error{Kind: KindFatal, Err: ErrEmptyRepository}
	}

	head, err := index.FromCommit(r.store, headID)
	if err != nil {
		return false, err
	}
	return len(diff.Compare(head, r.index)) == 0, nil
}
