package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KostasZigo/sit/internal/constants"
)

// Lock is the advisory single-writer lock held by mutating commands.
// Its file holds the pid of the holder.
type Lock struct {
	path string
}

// AcquireLock creates .sit/sit.lock exclusively. A held lock fails with ErrLocked.
func AcquireLock(sitDir string) (*Lock, error) {
	lockPath := filepath.Join(sitDir, constants.LockFile)

	f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.FilePerms)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			e := fatalf(ErrLocked, "%s", lockPath)
			if holder, readErr := os.ReadFile(lockPath); readErr == nil {
				e.Context = "pid " + strings.TrimSpace(string(holder))
			}
			return nil, e
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(lockPath)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	slog.Debug("Acquired repository lock", "path", lockPath)
	return &Lock{path: lockPath}, nil
}

// Release removes the lock file. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
