// Package diff compares two snapshots and produces line-level file diffs.
package diff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	gitdiff "github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/KostasZigo/sit/internal/index"
	"github.com/KostasZigo/sit/internal/output"
)

// Status classifies a changed path.
type Status int

const (
	Added Status = iota
	Modified
	Deleted
)

func (s Status) String() string {
	switch s {
	case Added:
		return "new file"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Change is one path that differs between two snapshots.
type Change struct {
	Path     string
	Status   Status
	BaseID   string
	TargetID string
}

// Compare returns every path whose id differs between base and target,
// ordered by path.
func Compare(base, target index.Reader) []Change {
	var changes []Change

	baseEntries := base.Snapshot()
	targetEntries := target.Snapshot()
	i, j := 0, 0
	for i < len(baseEntries) || j < len(targetEntries) {
		switch {
		case j == len(targetEntries) || (i < len(baseEntries) && baseEntries[i].Path < targetEntries[j].Path):
			changes = append(changes, Change{Path: baseEntries[i].Path, Status: Deleted, BaseID: baseEntries[i].ID})
			i++
		case i == len(baseEntries) || targetEntries[j].Path < baseEntries[i].Path:
			changes = append(changes, Change{Path: targetEntries[j].Path, Status: Added, TargetID: targetEntries[j].ID})
			j++
		default:
			if baseEntries[i].ID != targetEntries[j].ID {
				changes = append(changes, Change{
					Path:     baseEntries[i].Path,
					Status:   Modified,
					BaseID:   baseEntries[i].ID,
					TargetID: targetEntries[j].ID,
				})
			}
			i++
			j++
		}
	}

	return changes
}

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a file diff, without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

// FileDiff is a Change with its line-level content difference.
type FileDiff struct {
	Change
	Binary bool
	Lines  []Line
}

// Lines computes a line diff between two contents.
func Lines(base, target []byte) []Line {
	var lines []Line
	for _, d := range gitdiff.Do(string(base), string(target)) {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		}
		for text := range strings.Lines(d.Text) {
			lines = append(lines, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return lines
}

// IsBinary reports whether content looks like non-text data.
func IsBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0
}

// NewFileDiff builds the diff of one change from the two contents.
func NewFileDiff(change Change, base, target []byte) FileDiff {
	fd := FileDiff{Change: change}
	if IsBinary(base) || IsBinary(target) {
		fd.Binary = true
		return fd
	}
	fd.Lines = Lines(base, target)
	return fd
}

// Render writes diffs in a unified-like text form. Equal lines are printed
// with a leading space, insertions with "+" and deletions with "-".
func Render(w io.Writer, diffs []FileDiff, styles *output.Styles) error {
	for _, fd := range diffs {
		if _, err := fmt.Fprintln(w, styles.Bold(fmt.Sprintf("%s: %s", fd.Status, fd.Path))); err != nil {
			return err
		}
		if fd.Binary {
			if _, err := fmt.Fprintln(w, "Binary files differ"); err != nil {
				return err
			}
			continue
		}
		for _, line := range fd.Lines {
			var text string
			switch line.Op {
			case Insert:
				text = styles.Added("+" + line.Text)
			case Delete:
				text = styles.Deleted("-" + line.Text)
			default:
				text = " " + line.Text
			}
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
		}
	}
	return nil
}
