package index

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/utils"
)

// WorkingIndex maps every regular file of the working tree to the id its
// content would have if stored. Nothing is written to the object store.
type WorkingIndex struct {
	snapshot
}

// ScanWorkingTree hashes every regular file under root, skipping .sit.
// Files are hashed by at most workers goroutines; unreadable files are skipped.
func ScanWorkingTree(root string, workers int) (*WorkingIndex, error) {
	files, err := ListFiles(root, "")
	if err != nil {
		return nil, err
	}

	if workers < 1 {
		workers = 1
	}
	p := pool.NewWithResults[Entry]().WithErrors().WithMaxGoroutines(workers)
	for _, rel := range files {
		p.Go(func() (Entry, error) {
			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				slog.Warn("Skipping unreadable file", "path", rel, "error", err)
				return Entry{}, nil
			}
			return Entry{Path: rel, ID: utils.ComputeHash(content)}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(results))
	for _, e := range results {
		if e.Path == "" {
			continue
		}
		entries[e.Path] = e.ID
	}
	slog.Debug("Scanned working tree", "root", root, "files", len(entries))
	return &WorkingIndex{snapshot: newSnapshot(entries)}, nil
}

// ListFiles returns slash-separated, root-relative paths of the regular
// files at or below the root-relative path under. The .sit directory is
// never listed. Entries below under that cannot be read are logged and skipped.
func ListFiles(root, under string) ([]string, error) {
	start := filepath.Join(root, filepath.FromSlash(CleanPath(under)))

	var files []string
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == start {
				return err
			}
			slog.Warn("Skipping unreadable path", "path", p, "error", err)
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == constants.Sit {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || rel == constants.Sit || strings.HasPrefix(rel, constants.Sit+"/") {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files under %q: %w", under, err)
	}
	return files, nil
}
