package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KostasZigo/sit/internal/config"
	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
)

// CommitResult describes what Commit wrote.
type CommitResult struct {
	// ID is the commit built from the index.
	ID string
	// Tip is where master and HEAD point afterwards.
	Tip string
	// Rewritten holds the new ids of commits re-parented by an amend, oldest first.
	Rewritten []string
	Amend     bool
}

// Commit records the index as a new commit on master. With amend the commit
// at HEAD is replaced and every newer commit is rewritten on top of it.
// An empty message is read from COMMIT_MSG.
func (r *Repository) Commit(message string, amend bool) (*CommitResult, error) {
	headID, err := r.refs.Head()
	if err != nil {
		return nil, err
	}
	masterID, err := r.refs.MasterID()
	if err != nil {
		return nil, err
	}

	if headID != masterID && !amend {
		return nil, fatalf(ErrHeadDetached, "HEAD %s, master %s", headID, masterID)
	}
	if amend && headID == constants.EmptyRef {
		return nil, fatalf(ErrNothingToAmend, "no commits yet")
	}

	if message == "" {
		message, err = r.stagedMessage()
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(message) == "" {
		return nil, &Error{Kind: KindFatal, Err: ErrEmptyMessage}
	}

	signature, err := r.signature()
	if err != nil {
		return nil, err
	}

	parentID := masterID
	if amend {
		old, err := objects.ReadCommit(r.store, headID)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit to amend: %w", err)
		}
		parentID = old.ParentHash()
	}

	tree, err := r.index.Tree()
	if err != nil {
		return nil, err
	}
	treeID, err := objects.WriteTree(r.store, tree)
	if err != nil {
		return nil, err
	}

	newID, err := objects.WriteCommit(r.store, objects.NewCommit(treeID, parentID, signature, signature, message))
	if err != nil {
		return nil, err
	}

	result := &CommitResult{ID: newID, Tip: newID, Amend: amend}
	if amend {
		newer, err := r.commitsNewerThan(headID)
		if err != nil {
			return nil, err
		}
		rewritten, tip := RewriteChain(newer, newID)
		for _, commit := range rewritten {
			id, err := objects.WriteCommit(r.store, commit)
			if err != nil {
				return nil, err
			}
			result.Rewritten = append(result.Rewritten, id)
		}
		result.Tip = tip
	}

	if err := r.refs.SetMaster(result.Tip); err != nil {
		return nil, err
	}
	if err := r.refs.SetHead(result.Tip); err != nil {
		return nil, err
	}

	slog.Info("Committed", "id", newID, "tip", result.Tip, "amend", amend, "rewritten", len(result.Rewritten))
	return result, nil
}

func (r *Repository) stagedMessage() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.sitDir, constants.CommitMsg))
	if err != nil {
		return "", fatalf(ErrEmptyMessage, "commit message not found: %v", err)
	}
	return CleanMessage(string(data)), nil
}

// CleanMessage trims every line, drops lines starting with '#' and collapses
// runs of blank lines into one separator. Each kept line ends with '\n'.
func CleanMessage(text string) string {
	var b strings.Builder
	blank := false

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			blank = true
		case strings.HasPrefix(line, "#"):
		default:
			if blank && b.Len() > 0 {
				b.WriteByte('\n')
			}
			blank = false
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func (r *Repository) signature() (string, error) {
	values := make(map[string]string, 2)
	for _, key := range []string{"user.name", "user.email"} {
		val, err := r.config.Get(key)
		if err != nil {
			if errors.Is(err, config.ErrNotFound) {
				e := fatalf(ErrMissingConfig, "%s", key)
				e.Context = "config: " + key
				return "", e
			}
			return "", err
		}
		values[key] = val
	}

	return objects.Signature{
		Name:  values["user.name"],
		Email: values["user.email"],
		When:  r.now(),
	}.String(), nil
}
