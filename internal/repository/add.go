package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/KostasZigo/sit/internal/index"
	"github.com/KostasZigo/sit/internal/objects"
)

// AddFailure is a file that could not be staged.
type AddFailure struct {
	Path string
	Err  error
}

// AddReport describes the outcome of Add.
type AddReport struct {
	Added  []index.Entry
	Large  []string
	Failed []AddFailure
}

// Add stages every regular file at or below path. A file over the hard size
// limit fails the whole call before anything is written. Files that cannot
// be read or whose names cannot be stored are logged, reported, and skipped. The index is saved once.
func (r *Repository) Add(path string) (*AddReport, error) {
	rel := index.CleanPath(path)

	files, err := index.ListFiles(r.root, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fatalf(ErrPathNotFound, "%s", path)
		}
		return nil, err
	}

	report := &AddReport{}

	// Size check runs first so an oversized file leaves the index untouched.
	var pending []string
	for _, file := range files {
		if err := objects.ValidateEntryPath(file); err != nil {
			slog.Error("Cannot stage path", "path", file, "error", err)
			report.Failed = append(report.Failed, AddFailure{Path: file, Err: err})
			continue
		}
		info, err := os.Stat(r.workPath(file))
		if err != nil {
			slog.Error("Failed to stat file", "path", file, "error", err)
			report.Failed = append(report.Failed, AddFailure{Path: file, Err: err})
			continue
		}
		if info.Size() > r.maxSize {
			e := fatalf(ErrFileTooLarge, "%s", file)
			e.Context = fmt.Sprintf("%d bytes, limit %d", info.Size(), r.maxSize)
			return nil, e
		}
		if info.Size() > r.warnSize {
			slog.Warn("Adding a large file", "path", file, "size", info.Size(), "limit", r.warnSize)
			report.Large = append(report.Large, file)
		}
		pending = append(pending, file)
	}

	for _, file := range pending {
		id, err := r.addFile(file)
		if err != nil {
			slog.Error("Failed to add file", "path", file, "error", err)
			report.Failed = append(report.Failed, AddFailure{Path: file, Err: err})
			continue
		}
		r.index.Insert(file, id)
		report.Added = append(report.Added, index.Entry{Path: file, ID: id})
		slog.Debug("File added", "path", file, "hash", id)
	}

	if err := r.index.Save(); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Repository) addFile(file string) (string, error) {
	content, err := os.ReadFile(r.workPath(file))
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", file, err)
	}
	id, err := r.store.Put(content)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", file, err)
	}
	return id, nil
}

// Remove drops path, or every entry under it when it names a directory, from
// the index and saves it. Untracked paths are ignored.
func (r *Repository) Remove(path string) ([]string, error) {
	var removed []string
	for _, entry := range r.index.ListUnder(path) {
		r.index.Remove(entry.Path)
		removed = append(removed, entry.Path)
	}

	if err := r.index.Save(); err != nil {
		return nil, err
	}
	return removed, nil
}
