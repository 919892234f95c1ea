// Package refs reads and writes the two references a repository keeps:
// HEAD and the master branch.
package refs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/internal/objects"
	"github.com/KostasZigo/sit/utils"
)

var (
	// ErrAmbiguousID is returned when an abbreviated id matches several objects.
	ErrAmbiguousID = errors.New("ambiguous object id")

	// ErrUnknownID is returned when an id matches no stored object.
	ErrUnknownID = errors.New("unknown object id")
)

// EmptyRef is the value of a reference that points at no commit.
const EmptyRef = constants.EmptyRef

// Refs resolves reference names inside one .sit directory.
type Refs struct {
	sitDir string
}

func New(sitDir string) *Refs {
	return &Refs{sitDir: sitDir}
}

// LocalBranch returns the reference name of a local branch.
func LocalBranch(name string) string {
	return filepath.ToSlash(filepath.Join(constants.Refs, constants.Heads, name))
}

// Master is the reference name of the default branch.
func Master() string {
	return LocalBranch(constants.DefaultBranch)
}

func (r *Refs) refPath(name string) string {
	return filepath.Join(r.sitDir, filepath.FromSlash(name))
}

// Get returns the id stored under name. A missing or empty reference reads
// as EmptyRef. Anything that is not HEAD or a refs/ name is taken as a literal id.
func (r *Refs) Get(name string) (string, error) {
	if name != constants.Head && !strings.HasPrefix(name, constants.Refs+"/") {
		return name, nil
	}

	data, err := os.ReadFile(r.refPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return EmptyRef, nil
		}
		return "", fmt.Errorf("failed to read ref %s: %w", name, err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return EmptyRef, nil
	}
	if !utils.IsHexHash(id) {
		return "", fmt.Errorf("ref %s holds invalid id %q", name, id)
	}
	return id, nil
}

// Head returns the checked-out commit id.
func (r *Refs) Head() (string, error) {
	return r.Get(constants.Head)
}

// MasterID returns the tip of master.
func (r *Refs) MasterID() (string, error) {
	return r.Get(Master())
}

// Set overwrites name with id.
func (r *Refs) Set(name, id string) error {
	if !utils.IsHexHash(id) {
		return fmt.Errorf("%w: %q", objects.ErrInvalidHash, id)
	}

	path := r.refPath(name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
		return fmt.Errorf("failed to create ref directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ref-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write ref %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(id); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ref %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ref %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, constants.FilePerms); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ref %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ref %s: %w", name, err)
	}
	return nil
}

// SetHead moves HEAD.
func (r *Refs) SetHead(id string) error {
	return r.Set(constants.Head, id)
}

// SetMaster moves the master branch.
func (r *Refs) SetMaster(id string) error {
	return r.Set(Master(), id)
}

// Complete expands an abbreviated object id to the single stored id it
// names. Full ids are returned unchanged when they exist.
func Complete(store *objects.ObjectStore, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if utils.IsHexHash(prefix) {
		if !store.Exists(prefix) {
			return "", fmt.Errorf("%w: %s", ErrUnknownID, prefix)
		}
		return prefix, nil
	}

	ids, err := store.FindByPrefix(prefix)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUnknownID, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d objects", ErrAmbiguousID, prefix, len(ids))
	}
}
